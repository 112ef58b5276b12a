package objectbuilder

import (
	"testing"
)

// Benchmark component registration.
func BenchmarkConfigure_Singleton(b *testing.B) {
	for i := 0; i < b.N; i++ {
		c := New()
		_ = c.Configure(typeOf(&englishGreeter{}), Singleton, As(new(Greeter)))
	}
}

func BenchmarkConfigure_PerCall(b *testing.B) {
	for i := 0; i < b.N; i++ {
		c := New()
		_ = c.Configure(typeOf(&englishGreeter{}), PerCall, As(new(Greeter)))
	}
}

func BenchmarkConfigure_Additional(b *testing.B) {
	c := New()
	_ = c.Configure(typeOf(&englishGreeter{}), PerCall, As(new(Greeter)))

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		c.Defaults().Clear()
		_ = c.Configure(typeOf(&frenchGreeter{}), PerCall, As(new(Greeter)))
	}
}

// Benchmark default-instance resolution.
func BenchmarkBuild_Singleton_Cached(b *testing.B) {
	c := New()
	_ = c.Configure(typeOf(&englishGreeter{}), Singleton, As(new(Greeter)))

	// Warm up cache
	_, _ = c.Build(Contract[Greeter]())

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = c.Build(Contract[Greeter]())
	}
}

func BenchmarkBuild_PerCall(b *testing.B) {
	c := New()
	_ = c.Configure(typeOf(&englishGreeter{}), PerCall, As(new(Greeter)))

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = c.Build(Contract[Greeter]())
	}
}

func BenchmarkBuild_Factory(b *testing.B) {
	c := New()
	_ = c.Configure(typeOf(&frenchGreeter{}), Singleton, As(new(Greeter)))
	_ = c.ConfigureFunc(newGreetingService, PerCall)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = Build[*greetingService](c)
	}
}

func BenchmarkBuildAll(b *testing.B) {
	c := New()
	_ = c.Configure(typeOf(&englishGreeter{}), Singleton, As(new(Greeter)))
	_ = c.Configure(typeOf(&frenchGreeter{}), Singleton, As(new(Greeter)))
	_ = c.Configure(typeOf(&spanishGreeter{}), Singleton, As(new(Greeter)))

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = BuildAll[Greeter](c)
	}
}

// Benchmark scope lifecycle.
func BenchmarkChildContainer_PerUnitOfWork(b *testing.B) {
	root := New()
	_ = root.Configure(typeOf(&mockService{}), PerUnitOfWork)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		scope := root.BuildChildContainer()
		_, _ = scope.Build(Contract[*mockService]())
		_ = scope.Dispose()
	}
}
