//go:build !linux

// Package mpris публикует плеер в D-Bus по протоколу MPRIS.
// На других платформах адаптер ничего не делает.
package mpris

import "github.com/hazadus/simplemedia/internal/transport"

// Dispatcher передает команду в цикл событий, владеющий контроллером
type Dispatcher func(fn func(c *transport.Controller))

// Adapter ничего не делает вне Linux
type Adapter struct{}

// New возвращает пустой адаптер
func New(_ Dispatcher) (*Adapter, error) {
	return &Adapter{}, nil
}

// Update ничего не делает вне Linux
func (a *Adapter) Update(_ transport.Snapshot) {}

// Close ничего не делает вне Linux
func (a *Adapter) Close() error {
	return nil
}
