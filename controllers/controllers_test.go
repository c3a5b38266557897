package controllers

import (
	"errors"
	"fmt"
	"testing"
	"time"

	mysql "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateEntry(t *testing.T) {
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'a@b.c' for key 'users.email'"}

	assert.True(t, isDuplicateEntry(dup))
	assert.True(t, isDuplicateEntry(fmt.Errorf("create failed: %w", dup)))
	assert.True(t, isDuplicateEntry(errors.New("Error 1062: Duplicate entry '101' for key 'rooms.room_number'")))

	assert.False(t, isDuplicateEntry(&mysql.MySQLError{Number: 1045, Message: "Access denied"}))
	assert.False(t, isDuplicateEntry(errors.New("connection refused")))
}

func TestParseDateParam(t *testing.T) {
	got, err := parseDateParam("2026-09-10")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.September, 10, 0, 0, 0, 0, time.UTC), got)

	got, err = parseDateParam("2026-09-10T15:04:05Z")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.September, 10, 15, 4, 5, 0, time.UTC), got)

	_, err = parseDateParam("10/09/2026")
	assert.Error(t, err)

	_, err = parseDateParam("")
	assert.Error(t, err)
}
