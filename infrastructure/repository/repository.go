package repository

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Consultas acima deste tempo são registradas como lentas
const slowQueryThreshold = 300 * time.Millisecond

func logQueryDuration(table string, rows int, start time.Time) {
	elapsed := time.Since(start)
	entry := logrus.WithFields(logrus.Fields{
		"table":       table,
		"rows":        rows,
		"duration_ms": elapsed.Milliseconds(),
	})

	if elapsed > slowQueryThreshold {
		entry.Warn("repository: consulta lenta")
		return
	}
	entry.Debug("repository: consulta concluída")
}
