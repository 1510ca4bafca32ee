package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/mindengage-testgen/internal/users"
)

func TestRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render(&buf, nil, time.Now()))
	assert.Equal(t, "No users found in the database.\n", buf.String())
}

func TestRenderTableAndSummary(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.Local)
	list := []users.User{
		{Email: "a@x.io", Name: "Ann", Role: "teacher", CreatedAt: now.Add(-2 * time.Hour).UnixMilli()},
		{Email: "b@x.io", Name: "", Role: "student", CreatedAt: now.Add(-72 * time.Hour).UnixMilli()},
		{Email: "c@x.io", Name: "Cy", Role: "student", CreatedAt: now.UnixMilli()},
	}
	var buf bytes.Buffer
	require.NoError(t, render(&buf, list, now))
	out := buf.String()

	assert.Contains(t, out, "EMAIL")
	assert.Contains(t, out, "a@x.io")
	assert.Contains(t, out, "N/A")
	assert.Contains(t, out, "2 hours ago")
	assert.Contains(t, out, "3 days ago")
	assert.Contains(t, out, "Total Users: 3")
	assert.Contains(t, out, "  Student: 2\n")
	assert.Contains(t, out, "  Teacher: 1\n")
}
