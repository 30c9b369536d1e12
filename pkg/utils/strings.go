package utils

import "strings"

// SplitCSV separa parâmetros de query do tipo "a,b,c", descartando itens vazios
func SplitCSV(value string) []string {
	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			items = append(items, p)
		}
	}
	return items
}
