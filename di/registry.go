package di

// registration holds everything the resolver needs to construct and cache
// values for one token. It is the internal counterpart of the teacher's
// registration type, generalized from a reflective multi-arg factory to a
// boxed Provider[T] (see resolver.go).
type registration struct {
	key      tokenKey
	typeName string
	scope    Scope
	isAsync  bool
	provider any // Provider[T], boxed; type-asserted back in resolve[T].
}

// RegisterOption customizes a registration's scope at registration time,
// independent of whatever default scope the Token itself carries.
type RegisterOption func(*registration)

// AsSingleton registers the dependency as Singleton-scoped.
func AsSingleton() RegisterOption { return func(r *registration) { r.scope = Singleton } }

// AsRequest registers the dependency as Request-scoped.
func AsRequest() RegisterOption { return func(r *registration) { r.scope = Request } }

// AsSession registers the dependency as Session-scoped.
func AsSession() RegisterOption { return func(r *registration) { r.scope = Session } }

// AsTransient registers the dependency as Transient-scoped (the default).
func AsTransient() RegisterOption { return func(r *registration) { r.scope = Transient } }

// WithScope sets the registration's scope explicitly.
func WithScope(scope Scope) RegisterOption {
	return func(r *registration) { r.scope = scope }
}

// Register registers a synchronous provider for token. The provider may be
// invoked by both Get and AGet. By default the registration's scope comes
// from the token (Transient unless the token specifies otherwise); pass
// AsSingleton/AsRequest/AsSession/AsTransient/WithScope to override it.
//
// Example:
//
//	di.Register(c, LoggerToken, func(ctx context.Context) (Logger, error) {
//	    return &ConsoleLogger{}, nil
//	}, di.AsSingleton())
func Register[T any](c *Container, token Token[T], provider Provider[T], opts ...RegisterOption) {
	reg := &registration{
		key:      token.key(),
		typeName: token.String(),
		scope:    token.Scope(),
		provider: provider,
	}
	for _, opt := range opts {
		opt(reg)
	}
	c.putRegistration(reg)
	c.logger.log("registered provider", "token", reg.typeName, "scope", reg.scope.String())
}

// RegisterAsync registers a provider that may only be invoked through
// AGet. Resolving its token with Get returns
// AsyncProviderInSyncContextError.
func RegisterAsync[T any](c *Container, token Token[T], provider Provider[T], opts ...RegisterOption) {
	reg := &registration{
		key:      token.key(),
		typeName: token.String(),
		scope:    token.Scope(),
		isAsync:  true,
		provider: provider,
	}
	for _, opt := range opts {
		opt(reg)
	}
	c.putRegistration(reg)
	c.logger.log("registered async provider", "token", reg.typeName, "scope", reg.scope.String())
}

// RegisterValue installs a pre-built value as token's singleton, bypassing
// the provider table entirely. A later Register for the same token does
// not evict it until Clear is called.
func RegisterValue[T any](c *Container, token Token[T], value T) {
	key := token.key()
	c.setSingleton(key, value)
	c.trackResource(nil, value, &registration{key: key, typeName: token.String(), scope: Singleton})
	c.logger.log("registered value", "token", token.String())
}

// Override writes value directly into the container-wide singleton cache
// for token, bypassing per-context overrides installed by UseOverrides.
// Unlike UseOverrides, this affects every goroutine and outlives any
// single call.
func Override[T any](c *Container, token Token[T], value T) {
	c.setSingleton(token.key(), value)
	c.logger.log("overrode token", "token", token.String())
}

// Has reports whether token has a registered provider or a cached value.
func Has[T any](c *Container, token Token[T]) bool {
	key := token.key()
	if _, ok := c.getRegistration(key); ok {
		return true
	}
	_, ok := c.getSingleton(key)
	return ok
}
