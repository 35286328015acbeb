package core

import (
	"time"

	"github.com/google/uuid"
)

// Record is the immutable result of one successful logging call
type Record struct {
	id               uuid.UUID
	kind             Kind
	time             time.Time
	message          string
	formattedMessage string
	formattedTrace   string
	text             string
	level            Level
	err              error
}

// ID returns a unique identifier for correlating subscribers and outputs
func (r Record) ID() uuid.UUID { return r.id }

// Kind returns the logger kind that produced the record, "" for console records
func (r Record) Kind() Kind { return r.kind }

// Time returns when the record was built
func (r Record) Time() time.Time { return r.time }

// Message returns the caller's original message
func (r Record) Message() string { return r.message }

// FormattedMessage returns the message after formatting
func (r Record) FormattedMessage() string { return r.formattedMessage }

// FormattedTrace returns the rendered stack trace, possibly empty
func (r Record) FormattedTrace() string { return r.formattedTrace }

// Text returns the full composed text written to destinations
func (r Record) Text() string { return r.text }

// Level returns the record's severity
func (r Record) Level() Level { return r.level }

// Err returns the associated error, nil for plain messages
func (r Record) Err() error { return r.err }
