//go:build darwin

package main

import (
	"os/exec"
	"strings"
)

func sendOSNotification(title, body string, isError bool) {
	quote := func(s string) string {
		s = strings.ReplaceAll(s, `\`, `\\`)
		return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
	}
	script := "display notification " + quote(body) + " with title " + quote("CoinLock") +
		" subtitle " + quote(title)
	if isError {
		script += ` sound name "Basso"`
	}
	_ = exec.Command("osascript", "-e", script).Start()
}
