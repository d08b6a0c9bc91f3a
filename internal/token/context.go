package token

import (
	"fmt"

	"kekpiler/internal/config"
	"kekpiler/internal/diag"
	"kekpiler/internal/pattern"
	"kekpiler/internal/resource"
	"kekpiler/internal/source"
)

// Context is the handle of one running compilation. It is created by the
// compiler for a single Compile call and must not be retained.
type Context struct {
	File      *source.File
	Config    *config.Config
	Registry  *Registry
	Patterns  *pattern.Library
	Resources *resource.Registry
	Reporter  diag.Reporter
}

// Abort is raised by Report for error severity diagnostics and recovered by
// the compiler.
type Abort struct {
	Code    diag.Code
	Offset  int
	Message string
}

func (a *Abort) Error() string {
	return fmt.Sprintf("%s at offset %d: %s", a.Code.ID(), a.Offset, a.Message)
}

// Report records a diagnostic. An error severity diagnostic aborts the
// compilation and does not return.
func (c *Context) Report(code diag.Code, sev diag.Severity, offset int, msg string) {
	if c.Reporter != nil {
		c.Reporter.Report(code, sev, offset, msg)
	}
	if sev >= diag.SevError {
		panic(&Abort{Code: code, Offset: offset, Message: msg})
	}
}

func (c *Context) Reportf(code diag.Code, sev diag.Severity, offset int, format string, args ...any) {
	c.Report(code, sev, offset, fmt.Sprintf(format, args...))
}

// ReportConfigured reports with the severity stored under key.
func (c *Context) ReportConfigured(key string, code diag.Code, offset int, format string, args ...any) {
	c.Report(code, c.Config.Severity(key), offset, fmt.Sprintf(format, args...))
}

// ClassPrefix returns the configured content class prefix.
func (c *Context) ClassPrefix() string {
	return c.Config.String(config.KeyContentClassPrefix)
}
