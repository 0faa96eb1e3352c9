// Package sl holds slog attribute helpers shared across packages
package sl

import "log/slog"

// Err returns a slog.Attr with the error message
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}

	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// Client returns a slog.Attr naming the connection a record belongs to
func Client(name string) slog.Attr {
	return slog.String("client", name)
}
