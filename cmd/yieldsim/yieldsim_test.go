package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/yield-engine/api"
	"github.com/warp/yield-engine/generic"
)

// execute runs yieldsim offline against an in-memory store and returns
// stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	base := []string{
		"--offline",
		"--db", ":memory:",
		"--config", filepath.Join(t.TempDir(), "missing.toml"),
	}
	cmd.SetArgs(append(args, base...))

	err := cmd.Execute()
	return out.String(), err
}

func TestSimulate_Table(t *testing.T) {
	// GIVEN: R$ 1.000,00 on Friday 2025-01-03
	// WHEN: Simulating one business day
	// THEN: The table shows Monday with 0,31 net

	out, err := execute(t, "simulate", "--principal", "R$ 1.000,00", "--start", "2025-01-03", "--days", "1")
	require.NoError(t, err)

	assert.Contains(t, out, "SIMULAÇÃO")
	assert.Contains(t, out, "06/01/2025")
	assert.Contains(t, out, "R$ 1.000,31")
	assert.Contains(t, out, "22,5%")
}

func TestSimulate_JSON(t *testing.T) {
	out, err := execute(t, "simulate", "-p", "1000", "-s", "2025-04-15", "-n", "10", "--json")
	require.NoError(t, err)

	var dto api.SimulationDTO
	require.NoError(t, json.Unmarshal([]byte(out), &dto), out)
	assert.NotEmpty(t, dto.ID)
	assert.Equal(t, "2025-04-16", dto.PeriodStart)
	assert.Equal(t, "2025-05-02", dto.PeriodEnd)
	assert.Len(t, dto.Records, 10)
	assert.Len(t, dto.Holidays, 3)
}

func TestSimulate_DefaultsToToday(t *testing.T) {
	// GIVEN: No --start flag and a clock on Friday 2025-01-03
	// WHEN: Simulating one business day
	// THEN: The investment date is that Friday and Monday earns

	friday := time.Date(2025, time.January, 3, 10, 0, 0, 0, time.Local)
	cmd := newRootCmdAt(func() time.Time { return friday })

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{
		"simulate", "-p", "100", "-n", "1", "--json",
		"--offline", "--db", ":memory:", "--config", filepath.Join(t.TempDir(), "none.toml"),
	})
	require.NoError(t, cmd.Execute())

	var dto api.SimulationDTO
	require.NoError(t, json.Unmarshal(out.Bytes(), &dto), out.String())
	assert.Equal(t, "2025-01-03", dto.StartDate)
	assert.Equal(t, "2025-01-06", dto.PeriodStart)
}

func TestSimulate_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad principal", []string{"simulate", "-p", "abc", "-n", "1"}, "no amount"},
		{"zero principal", []string{"simulate", "-p", "0", "-s", "2025-01-03", "-n", "1"}, "principal"},
		{"bad date", []string{"simulate", "-p", "10", "-s", "03/01/2025", "-n", "1"}, "malformed date"},
		{"zero days", []string{"simulate", "-p", "10", "-s", "2025-01-03", "-n", "0"}, "invalid"},
		{"too many days", []string{"simulate", "-p", "10", "-s", "2025-01-03", "-n", "99999"}, "at most"},
		{"missing days", []string{"simulate", "-p", "10"}, "required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestHolidays(t *testing.T) {
	out, err := execute(t, "holidays", "2025")
	require.NoError(t, err)

	assert.Contains(t, out, "Feriados 2025")
	assert.Contains(t, out, "03/03/2025")
	assert.Contains(t, out, "Carnaval")
	assert.Contains(t, out, "25/12/2025")

	_, err = execute(t, "holidays", "abc")
	assert.Error(t, err)
}

func TestRateAndAnnualize(t *testing.T) {
	out, err := execute(t, "rate", "2025")
	require.NoError(t, err)
	assert.Contains(t, out, "CDI 2025")
	assert.Contains(t, out, "0,0400%")
	assert.Contains(t, out, "10,60%")
	assert.Contains(t, out, "offline")

	out, err = execute(t, "annualize", "0.0004")
	require.NoError(t, err)
	assert.Contains(t, out, "10,60%")

	_, err = execute(t, "annualize", "abc")
	assert.ErrorIs(t, err, generic.ErrInvalidInput)
}

func TestParseYear(t *testing.T) {
	year, err := parseYear("2025")
	require.NoError(t, err)
	assert.Equal(t, 2025, year)

	for _, bad := range []string{"", "abc", "20250", "1800"} {
		_, err := parseYear(bad)
		assert.Error(t, err, bad)
		assert.True(t, strings.Contains(err.Error(), "not a year"), bad)
	}
}

func TestReportError(t *testing.T) {
	_, err := execute(t, "simulate", "-p", "0", "-s", "2025-01-03", "-n", "1")
	require.Error(t, err)

	var buf bytes.Buffer
	reportError(&buf, err)
	assert.Contains(t, buf.String(), "error: invalid principal")
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
}
