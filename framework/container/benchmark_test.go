package container

import "testing"

func BenchmarkRegister(b *testing.B) {
	for b.Loop() {
		r := New(nil)
		RegisterSingleton(r, newTestLogger)
		RegisterSingleton(r, newTestConfig)
		RegisterSingleton(r, newTestDatabase)
	}
}

func BenchmarkResolve_Singleton(b *testing.B) {
	r := New(nil)
	RegisterSingleton(r, newTestLogger)
	RegisterSingleton(r, newTestConfig)
	RegisterSingleton(r, newTestDatabase)

	for b.Loop() {
		Resolve[*testDatabase](r)
	}
}

func BenchmarkResolve_Transient(b *testing.B) {
	r := New(nil)
	RegisterSingleton(r, newTestLogger)
	RegisterSingleton(r, newTestConfig)
	RegisterTransient(r, newTestDatabase)

	for b.Loop() {
		Resolve[*testDatabase](r)
	}
}

func BenchmarkResolve_ThroughChildren(b *testing.B) {
	root := New(nil)
	RegisterSingleton(root, newTestLogger)
	leaf := root.Child().Child().Child()

	for b.Loop() {
		Resolve[*testLogger](leaf)
	}
}
