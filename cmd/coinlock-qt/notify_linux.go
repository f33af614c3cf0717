//go:build linux

package main

import "os/exec"

func sendOSNotification(title, body string, isError bool) {
	urgency, icon := "normal", "dialog-information"
	if isError {
		urgency, icon = "critical", "dialog-error"
	}
	_ = exec.Command("notify-send", "-a", "CoinLock", "-u", urgency, "-i", icon, title, body).Start()
}
