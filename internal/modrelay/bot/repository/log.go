package repository

import (
	"encoding/json"
	"fmt"
	"modrelay/internal/modrelay"
	"os"
	"sync"
)

// Audit is an append-only JSONL file of moderation events.
type Audit struct {
	filename string
	mu       sync.Mutex
}

func NewAudit(filename string) *Audit {
	return &Audit{
		filename: filename,
		mu:       sync.Mutex{},
	}
}

func (a *Audit) AddEvent(event modrelay.Event) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	fd, err := os.OpenFile(a.filename, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0600)
	if err != nil {
		return fmt.Errorf("%q open: %w", a.filename, err)
	}
	defer fd.Close()

	data, err := json.Marshal(&event)
	if err != nil {
		return fmt.Errorf("%v marshal: %w", event, err)
	}

	data = append(data, '\n')

	_, err = fd.Write(data)
	if err != nil {
		return fmt.Errorf("%q write: %w", a.filename, err)
	}

	return nil
}
