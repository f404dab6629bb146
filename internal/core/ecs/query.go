package ecs

import "reflect"

// Each calls fn for every entity in w that carries a T, in id order.
func Each[T any](w *World, fn func(Entity, *T)) {
	t := reflect.TypeFor[T]()
	for _, e := range w.Entities() {
		if c, ok := w.Component(e.id, t); ok {
			fn(e, c.(*T))
		}
	}
}

// Each2 iterates over entities that have both component A and B.
func Each2[A, B any](w *World, fn func(Entity, *A, *B)) {
	ta, tb := reflect.TypeFor[A](), reflect.TypeFor[B]()
	for _, e := range w.Entities() {
		a, ok := w.Component(e.id, ta)
		if !ok {
			continue
		}
		if b, ok := w.Component(e.id, tb); ok {
			fn(e, a.(*A), b.(*B))
		}
	}
}

// Count returns how many entities in w carry a T.
func Count[T any](w *World) int {
	n := 0
	Each(w, func(Entity, *T) { n++ })
	return n
}
