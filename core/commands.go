package core

import "strings"

// registerSystemCommands installs the built-in $ commands
func registerSystemCommands(r *CommandRegistry) {
	r.Register("I", "build info", handleBuildInfo)
	r.Register("$", "settings", handleSettings)
	r.Register("EG", "setting groups", handleSettingGroups)
	r.Register("PINS", "pin assignments", handlePins)
	r.Register("RST", "restore settings", handleRestore)
}

// handleBuildInfo reports version and plugin lines ($I)
func handleBuildInfo(h *Host, args string) error {
	ReportBuildInfo(h.Stream, h.Events, h.board)
	return nil
}

// handleSettings reports all settings ($$) or details of one ($$=<id>)
func handleSettings(h *Host, args string) error {
	if args == "" {
		h.Settings.Report(h.Stream)
		return nil
	}
	id, ok := ParseUint(args)
	if !ok || id > 0xFFFF || !h.Settings.ReportDetail(h.Stream, SettingID(id)) {
		return ErrSettingUnknown
	}
	return nil
}

// handleSettingGroups lists setting groups ($EG)
func handleSettingGroups(h *Host, args string) error {
	h.Settings.ReportGroups(h.Stream)
	return nil
}

// handlePins lists aux outputs and their owners ($PINS)
func handlePins(h *Host, args string) error {
	h.Ports.Pins(h.Stream)
	return nil
}

// handleRestore resets settings to defaults ($RST=$ or $RST=*)
func handleRestore(h *Host, args string) error {
	switch strings.TrimSpace(args) {
	case "$", "*":
		h.Settings.RestoreAll()
		h.Stream.ReportMessage("Restoring defaults", MessagePlain)
		return nil
	default:
		return ErrInvalidStatement
	}
}
