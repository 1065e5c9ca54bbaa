// seed_skr generiert ein SQL-Skript zum Befüllen des Kontenrahmens (SKR03 oder SKR04)
// aus der offiziellen DATEV-Kontenrahmen-CSV (Latin-1-kodiert, semikolongetrennt).
//
// Aufruf: go run ./cmd/seed_skr <SKR03|SKR04> [pfad/kontenrahmen.csv]
// Standardmäßig wird kontenrahmen.csv im aktuellen Verzeichnis gesucht.
// Schreibt: internal/infrastructure/postgres/migrations/020_seed_skr_accounts.sql
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type konto struct {
	nummer      string
	bezeichnung string
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Aufruf: seed_skr <SKR03|SKR04> [kontenrahmen.csv]")
		os.Exit(1)
	}
	scheme := strings.ToUpper(os.Args[1])
	if scheme != "SKR03" && scheme != "SKR04" {
		fmt.Fprintf(os.Stderr, "Unbekannter Kontenrahmen: %s\n", scheme)
		os.Exit(1)
	}
	csvPath := "kontenrahmen.csv"
	if len(os.Args) > 2 {
		csvPath = os.Args[2]
	}

	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "CSV öffnen: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	// DATEV liefert die Kontenrahmen als Latin-1; vor dem Parsen nach UTF-8 wandeln.
	konten, err := parseKonten(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "CSV lesen: %v\n", err)
		os.Exit(1)
	}
	if len(konten) == 0 {
		fmt.Fprintln(os.Stderr, "Keine Konten in der CSV gefunden")
		os.Exit(1)
	}
	sort.Slice(konten, func(i, j int) bool { return konten[i].nummer < konten[j].nummer })

	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "internal", "infrastructure", "postgres", "migrations", "020_seed_skr_accounts.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Datei erzeugen: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	fmt.Fprintf(out, "-- Kontenrahmen %s (DATEV-Standard)\n", scheme)
	fmt.Fprintf(out, "-- Generiert aus %s\n\n", filepath.Base(csvPath))
	out.WriteString("INSERT INTO skr_accounts (scheme, account_number, description) VALUES\n")
	for i, k := range konten {
		sep := ","
		if i == len(konten)-1 {
			sep = ""
		}
		fmt.Fprintf(out, "  ('%s', '%s', '%s')%s\n", scheme, k.nummer, escapeSQL(k.bezeichnung), sep)
	}
	out.WriteString("ON CONFLICT (scheme, account_number) DO UPDATE SET description = EXCLUDED.description;\n")

	fmt.Printf("Generiert %s: %d Konten (%s)\n", outPath, len(konten), scheme)
}

// parseKonten liest Zeilen der Form "Konto;Bezeichnung[;...]". Kopfzeilen und
// Gliederungszeilen ohne numerische Kontonummer werden übersprungen.
func parseKonten(r io.Reader) ([]konto, error) {
	var konten []konto
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		parts := strings.SplitN(sc.Text(), ";", 3)
		if len(parts) < 2 {
			continue
		}
		nummer := strings.TrimSpace(parts[0])
		bezeichnung := strings.TrimSpace(strings.Trim(parts[1], `"`))
		if nummer == "" || bezeichnung == "" || !isDigits(nummer) {
			continue
		}
		konten = append(konten, konto{nummer: nummer, bezeichnung: bezeichnung})
	}
	return konten, sc.Err()
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
