package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation prüft, ob ein Fehler eine Unique-Constraint-Verletzung
// (23505) ist.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// nullIfEmpty bildet leere Strings auf NULL ab, damit optionale Spalten
// nicht mit Leerstrings gefüllt werden.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
