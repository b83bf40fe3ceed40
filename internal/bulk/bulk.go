// Package bulk parses the two administrator-supplied CSV formats: the
// term roster ("email,courses,leads,sections,teams") and the role
// directory export ("role,discord_id").
package bulk

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/coursekit/rollcall/internal/models"
)

// ErrMalformedHeader means the first line did not match the expected
// format. The whole import aborts before any row is processed.
var ErrMalformedHeader = errors.New("malformed header")

// ErrMalformedRow means a data row had the wrong shape. Remaining rows
// are abandoned; rows already handed to the callback stand.
var ErrMalformedRow = errors.New("malformed row")

// Header lines for the two import formats.
const (
	AssignmentHeader = "email,courses,leads,sections,teams"
	RoleHeader       = "role,discord_id"
)

// EachAssignment reads roster rows and passes each to fn as it is
// parsed. fn is expected to commit the row; if fn or the parser fails,
// iteration stops and the number of rows already handed over is
// returned alongside the error.
func EachAssignment(r io.Reader, fn func(*models.Assignment) error) (int, error) {
	cr, err := readHeader(r, AssignmentHeader, 5)
	if err != nil {
		return 0, err
	}

	count := 0
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			return count, nil
		}
		if err != nil {
			return count, fmt.Errorf("line %d: %w: %v", line, ErrMalformedRow, err)
		}
		a := &models.Assignment{
			Email:    strings.TrimSpace(record[0]),
			Courses:  strings.TrimSpace(record[1]),
			Leads:    strings.TrimSpace(record[2]),
			Sections: strings.TrimSpace(record[3]),
			Teams:    strings.TrimSpace(record[4]),
		}
		if a.Email == "" {
			return count, fmt.Errorf("line %d: empty email: %w", line, ErrMalformedRow)
		}
		if err := fn(a); err != nil {
			return count, err
		}
		count++
	}
}

// EachRole reads role directory rows and passes each label/ID pair to
// fn. Same commit-per-row semantics as EachAssignment.
func EachRole(r io.Reader, fn func(label, discordID string) error) (int, error) {
	cr, err := readHeader(r, RoleHeader, 2)
	if err != nil {
		return 0, err
	}

	count := 0
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			return count, nil
		}
		if err != nil {
			return count, fmt.Errorf("line %d: %w: %v", line, ErrMalformedRow, err)
		}
		label := strings.TrimSpace(record[0])
		id := strings.TrimSpace(record[1])
		if label == "" || id == "" {
			return count, fmt.Errorf("line %d: empty field: %w", line, ErrMalformedRow)
		}
		if err := fn(label, id); err != nil {
			return count, err
		}
		count++
	}
}

func readHeader(r io.Reader, want string, fields int) (*csv.Reader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = fields
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedHeader, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	if strings.Join(header, ",") != want {
		return nil, fmt.Errorf("%w: first line must be %q", ErrMalformedHeader, want)
	}
	return cr, nil
}
