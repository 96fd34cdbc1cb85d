package slogx

import "log/slog"

func Err(err error) slog.Attr {
	return slog.Any("error", err)
}

func UserEmail(email string) slog.Attr {
	return slog.String("user_email", email)
}

func NoteID(id string) slog.Attr {
	return slog.String("note_id", id)
}
