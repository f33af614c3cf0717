//go:build windows

package main

import (
	"os/exec"
	"strings"
)

func sendOSNotification(title, body string, isError bool) {
	// PowerShell single-quoted literals escape ' as ''.
	title = strings.ReplaceAll(title, "'", "''")
	body = strings.ReplaceAll(body, "'", "''")
	icon, tip := "Information", "Info"
	if isError {
		icon, tip = "Error", "Error"
	}

	script := `Add-Type -AssemblyName System.Windows.Forms;` +
		`$n = New-Object System.Windows.Forms.NotifyIcon;` +
		`$n.Icon = [System.Drawing.SystemIcons]::` + icon + `;` +
		`$n.BalloonTipIcon = '` + tip + `';` +
		`$n.BalloonTipTitle = 'CoinLock: ` + title + `';` +
		`$n.BalloonTipText = '` + body + `';` +
		`$n.Visible = $true;` +
		`$n.ShowBalloonTip(5000);` +
		`Start-Sleep -Milliseconds 5100;` +
		`$n.Dispose()`
	_ = exec.Command("powershell", "-NoProfile", "-NonInteractive", "-Command", script).Start()
}
