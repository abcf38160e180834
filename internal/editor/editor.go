package editor

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
)

// Editor owns the current session of an image editor.
//
// It runs every action through Dispatch, commits the result on
// success and notifies its subscribers. An Editor is meant to be
// used from a single goroutine.
type Editor struct {
	env       Env
	session   Session
	observers map[int]func(Snapshot)
	nextID    int
}

// New returns an Editor with an empty session.
func New(env Env) *Editor {
	return &Editor{
		env:       env,
		session:   NewSession(),
		observers: map[int]func(Snapshot){},
	}
}

// Session returns the current session.
func (e *Editor) Session() Session {
	return e.session
}

// Snapshot returns a read-only view of the current session.
func (e *Editor) Snapshot() Snapshot {
	return e.session.Snapshot()
}

// Subscribe registers a function called with a new snapshot after
// every successful action. The returned function cancels the
// subscription.
func (e *Editor) Subscribe(fn func(Snapshot)) func() {
	id := e.nextID
	e.nextID++
	e.observers[id] = fn
	return func() {
		delete(e.observers, id)
	}
}

// Do runs an action on the current session. When it fails, the
// session is left untouched.
func (e *Editor) Do(ctx context.Context, a Action) error {
	l := log.WithField("action", a.Name())

	next, err := Dispatch(ctx, e.env, e.session, a)
	switch {
	case errors.Is(err, ErrCancelled):
		l.Debug("action cancelled")
		return err
	case errors.Is(err, ErrInvalidValue), errors.Is(err, ErrInvalidState):
		l.WithError(err).Warn("action rejected")
		return err
	case err != nil:
		l.WithError(err).Error("action failed")
		return err
	}

	e.session = next
	l.WithFields(log.Fields{
		"path":   next.sourcePath,
		"format": next.sourceFormat,
		"scale":  next.scaleX,
		"zoom":   next.zoom,
	}).Debug("action done")

	snapshot := next.Snapshot()
	for _, fn := range e.observers {
		fn(snapshot)
	}
	return nil
}

// Close releases the current image.
func (e *Editor) Close() error {
	if e.session.Loaded() {
		log.WithField("path", e.session.sourcePath).Debug("closing image")
	}
	e.session = NewSession()
	e.observers = map[int]func(Snapshot){}
	return nil
}
