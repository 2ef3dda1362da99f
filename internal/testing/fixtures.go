package testing

import (
	"time"

	"github.com/aristath/sdnwatch/internal/domain"
)

// SampleCSV is a short excerpt in the published SDN layout, including the
// trailing SUB line the Treasury file ends with.
const SampleCSV = "36,\"AEROCARIBBEAN AIRLINES\",-0- ,\"CUBA\",-0- ,-0- \r\n" +
	"173,\"ANGLO-CARIBBEAN CO., LTD.\",-0- ,\"CUBA\",-0- ,-0- \r\n" +
	"306,\"BANCO NACIONAL DE CUBA\",-0- ,\"CUBA\",-0- ,-0- \r\n" +
	"2674,\"ABU NIDAL ORGANIZATION\",-0- ,\"SDGT\",-0- ,-0- \r\n" +
	"\x1a\r\n"

// NewRecordFixtures returns the records SampleCSV parses to
func NewRecordFixtures() []domain.EntityRecord {
	return []domain.EntityRecord{
		{ID: "36", Name: "AEROCARIBBEAN AIRLINES", Type: "-0-", Program: "CUBA"},
		{ID: "173", Name: "ANGLO-CARIBBEAN CO., LTD.", Type: "-0-", Program: "CUBA"},
		{ID: "306", Name: "BANCO NACIONAL DE CUBA", Type: "-0-", Program: "CUBA"},
		{ID: "2674", Name: "ABU NIDAL ORGANIZATION", Type: "-0-", Program: "SDGT"},
	}
}

// NewHistoryFixtures returns n history entries eight hours apart, oldest first
func NewHistoryFixtures(n int) domain.HistoryLog {
	base := time.Date(2024, 1, 1, 6, 0, 0, 0, time.UTC)
	log := make(domain.HistoryLog, n)
	for i := range log {
		log[i] = domain.HistoryEntry{
			Timestamp:      base.Add(time.Duration(i) * 8 * time.Hour),
			AdditionsCount: i + 1,
			DeletionsCount: i % 2,
		}
	}
	return log
}
