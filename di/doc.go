// Package di provides a type-safe dependency injection container for Go,
// with context-scoped lifetimes, single-flight singleton initialization,
// and structured resource teardown.
//
// # Features
//
//   - Generic, type-safe token-based registration and resolution
//   - Four lifetimes: Transient, Singleton, Request, and Session
//   - Request/Session scope blocks carried on context.Context
//   - Circular dependency detection with a reported chain
//   - Single-flight coordinated singleton construction (sync and async)
//   - Capability-based resource teardown (SyncCloser / AsyncCloser)
//
// # Basic usage
//
//	c := di.New()
//
//	var LoggerToken = di.NewToken[Logger]("logger")
//	di.Register(c, LoggerToken, func(ctx context.Context) (Logger, error) {
//	    return &ConsoleLogger{}, nil
//	}, di.AsSingleton())
//
//	var ServiceToken = di.NewToken[UserService]("user-service")
//	di.Register(c, ServiceToken, func(ctx context.Context) (UserService, error) {
//	    logger, err := di.Get(ctx, c, LoggerToken)
//	    if err != nil {
//	        return nil, err
//	    }
//	    return &defaultUserService{logger: logger}, nil
//	})
//
//	service, err := di.Get(context.Background(), c, ServiceToken)
//
// # Scopes
//
// Transient: a new instance is constructed on every resolution. This is
// the default when a Token doesn't specify otherwise.
//
// Singleton: one instance for the Container's lifetime, shared across
// every goroutine, constructed at most once even under concurrent
// first-access (see Get/AGet).
//
// Request and Session: one instance per RequestScope/SessionScope call,
// shared by anything resolved within that call's dynamic extent.
package di
