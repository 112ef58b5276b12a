// Package objectbuilder is a dependency-injection container abstraction.
//
// Components are registered against contracts (interface or concrete
// types) with a [Lifecycle]. The first component registered for a contract
// becomes its default and is returned by [Container.Build]; later ones are
// additional and are reached through [Container.BuildAll].
//
//	c := objectbuilder.New()
//	_ = objectbuilder.ConfigureType[*SmtpSender](c, objectbuilder.PerCall, objectbuilder.As(new(Sender)))
//	sender, err := objectbuilder.Build[Sender](c)
//
// Child containers form a scope tree. [PerUnitOfWork] instances live in the
// scope that built them and are released by [Container.Dispose];
// [Singleton] instances are shared by the whole tree.
//
// Construction is delegated to an [Engine]. [NewMemoryEngine] is the
// reference implementation; any backend satisfying the interface can be
// plugged in with [WithEngine].
package objectbuilder
