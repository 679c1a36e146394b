package database

import "strings"

func pgx5URL(dbURL string) string {
	for _, prefix := range []string{"postgresql://", "postgres://"} {
		if rest, ok := strings.CutPrefix(dbURL, prefix); ok {
			return "pgx5://" + rest
		}
	}
	return dbURL
}
