package honeypot

// AdminStatusWriter is implemented by writers that can display the admin
// endpoint address (e.g. the TUI footer).
type AdminStatusWriter interface {
	SetAdminStatus(addr string)
}
