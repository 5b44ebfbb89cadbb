package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"seatbook/internal/domain"
)

// MatrixFile is the YAML shape of the availability matrix:
//
//	slots:
//	  morning: [monday, tuesday, wednesday, thursday, friday]
//	  afternoon: [monday, tuesday, wednesday]
type MatrixFile struct {
	Slots map[string][]string `yaml:"slots"`
}

// LoadMatrix reads the availability matrix from path. An empty path yields the
// built-in default.
func LoadMatrix(path string) (domain.Matrix, error) {
	if path == "" {
		return domain.DefaultMatrix(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read matrix: %w", err)
	}
	return ParseMatrix(data)
}

func ParseMatrix(data []byte) (domain.Matrix, error) {
	var f MatrixFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse matrix: %w", err)
	}
	if len(f.Slots) == 0 {
		return nil, fmt.Errorf("validate matrix: no slots defined")
	}

	m := domain.Matrix{}
	for rawSlot, days := range f.Slots {
		ts, ok := domain.ParseTimeSlot(rawSlot)
		if !ok {
			return nil, fmt.Errorf("validate matrix: unknown time slot %q", rawSlot)
		}
		if m[ts] == nil {
			m[ts] = map[domain.Weekday]bool{}
		}
		for _, rawDay := range days {
			wd, ok := domain.ParseWeekday(rawDay)
			if !ok {
				return nil, fmt.Errorf("validate matrix: unknown weekday %q for %s", rawDay, ts)
			}
			m[ts][wd] = true
		}
	}
	return m, nil
}
