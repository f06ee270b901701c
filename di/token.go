package di

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
)

// Scope determines how long a resolved instance lives and how widely it is
// shared. It is the Go-side translation of the lifetime taxonomy used
// throughout the container: a value resolved under Singleton is shared for
// the lifetime of the Container, a value resolved under Request or Session
// is shared for the lifetime of the enclosing scope frame, and a value
// resolved under Transient is constructed fresh on every call.
type Scope int

const (
	// Transient constructs a new instance on every resolution. This is the
	// default scope when a Token does not specify one.
	Transient Scope = iota

	// Singleton constructs at most one instance for the lifetime of the
	// Container, shared across every goroutine and every scope.
	Singleton

	// Request shares one instance across all resolutions performed inside
	// the dynamic extent of a single RequestScope call.
	Request

	// Session shares one instance across all resolutions performed inside
	// the dynamic extent of a single SessionScope call, and across any
	// RequestScope calls nested within it.
	Session
)

// String returns the human-readable name of the scope.
func (s Scope) String() string {
	switch s {
	case Singleton:
		return "Singleton"
	case Request:
		return "Request"
	case Session:
		return "Session"
	default:
		return "Transient"
	}
}

// tokenKey is the identity under which a registration and its cached
// instances are stored. Two tokens referring to the same type, the same
// name, and the same qualifier resolve to the same registration,
// regardless of how many Token values were constructed to describe it.
// Scope and tags are deliberately excluded (see DESIGN.md, Open Question
// 3): scope is mutable per registration via RegisterOption independent of
// a token's own default, and tags are descriptive metadata only.
type tokenKey struct {
	typ       reflect.Type
	name      string
	qualifier string
}

func (k tokenKey) String() string {
	s := k.name
	if s == "" {
		s = k.typ.String()
	}
	if k.qualifier != "" {
		s = fmt.Sprintf("%s#%s", s, k.qualifier)
	}
	return s
}

// Token is a typed handle identifying a dependency that can be registered
// with and resolved from a Container. Tokens are immutable; the With*
// methods return a modified copy and leave the receiver untouched.
//
// Example:
//
//	var LoggerToken = di.NewToken[Logger]("logger")
//	di.Register(c, LoggerToken, func(ctx context.Context) (Logger, error) {
//	    return &ConsoleLogger{}, nil
//	}, di.AsSingleton())
type Token[T any] struct {
	name      string
	typ       reflect.Type
	scope     Scope
	qualifier string
	// tags is stored as a sorted, comma-joined string rather than
	// []string so that Token[T] stays comparable (a slice field would
	// make == illegal on this type) and so Intern's promise that equal
	// tokens compare == holds for every field.
	tags string
}

// NewToken creates a Token for type T with the given display name. The
// token defaults to Transient scope; use WithScope to change that default,
// or pass a scope-specific RegisterOption at registration time.
func NewToken[T any](name string) Token[T] {
	var zero T
	return Token[T]{
		name: name,
		typ:  reflect.TypeOf(&zero).Elem(),
	}
}

// WithScope returns a copy of the token carrying the given default scope.
func (t Token[T]) WithScope(scope Scope) Token[T] {
	t.scope = scope
	return t
}

// WithQualifier returns a copy of the token distinguished by qualifier. Two
// tokens for the same type with different qualifiers are registered and
// resolved independently, which is how multiple implementations of the
// same interface coexist in one Container.
func (t Token[T]) WithQualifier(qualifier string) Token[T] {
	t.qualifier = qualifier
	return t
}

// WithTags returns a copy of the token carrying the given tags. Tags are
// descriptive metadata; they do not participate in Registry identity (see
// tokenKey) but do participate in Token equality and in Intern's 5-tuple.
func (t Token[T]) WithTags(tags ...string) Token[T] {
	sorted := append([]string(nil), tags...)
	sort.Strings(sorted)
	t.tags = strings.Join(sorted, ",")
	return t
}

// Name returns the token's display name.
func (t Token[T]) Name() string { return t.name }

// Qualifier returns the token's qualifier, or "" if unqualified.
func (t Token[T]) Qualifier() string { return t.qualifier }

// Tags returns the token's descriptive tags.
func (t Token[T]) Tags() []string {
	if t.tags == "" {
		return nil
	}
	return strings.Split(t.tags, ",")
}

// Scope returns the token's default scope.
func (t Token[T]) Scope() Scope { return t.scope }

// String returns a human-readable description of the token, suitable for
// error messages and logging.
func (t Token[T]) String() string {
	if t.name != "" {
		return t.name
	}
	return t.key().String()
}

func (t Token[T]) key() tokenKey {
	return tokenKey{typ: t.typ, name: t.name, qualifier: t.qualifier}
}

// identity is Token's full 5-tuple (name, type, scope, qualifier, tags),
// the key Intern dedupes on — broader than tokenKey, which the Registry
// uses and which deliberately excludes scope and tags.
type identity struct {
	typ       reflect.Type
	name      string
	qualifier string
	scope     Scope
	tags      string
}

func (t Token[T]) identity() identity {
	return identity{typ: t.typ, name: t.name, qualifier: t.qualifier, scope: t.scope, tags: t.tags}
}

// TokenFactory is a marker type for the package-level token constructors
// below (SingletonToken, RequestToken, SessionToken, TransientToken, and
// Intern). Go methods cannot introduce their own type parameters, so the
// factory is expressed as free functions rather than methods on a shared
// receiver; TokenFactory exists so call sites can still read as "the
// factory creates/interns a token" when that reads more clearly than the
// bare function name.
type TokenFactory struct{}

// NewTokenFactory returns a TokenFactory.
func NewTokenFactory() TokenFactory { return TokenFactory{} }

var (
	internMu    sync.Mutex
	internTable = map[identity]any{}
)

// Intern returns the canonical Token[T] for token's full identity tuple
// (name, type, scope, qualifier, tags): the first call for a given tuple
// stores token and returns it unchanged; every later call with an
// equal tuple returns that same stored value. Since Token[T] is
// comparable (tags is stored as a canonical string, not a slice), two
// Token[T] values with equal fields already compare ==
// without interning; Intern additionally gives independently constructed
// call sites back the identical value, which matters when a token is
// used as a map key or compared by identity-sensitive callers.
func Intern[T any](token Token[T]) Token[T] {
	internMu.Lock()
	defer internMu.Unlock()
	key := token.identity()
	if existing, ok := internTable[key]; ok {
		return existing.(Token[T])
	}
	internTable[key] = token
	return token
}

// SingletonToken creates a Singleton-scoped token for T.
func SingletonToken[T any](name string) Token[T] {
	return NewToken[T](name).WithScope(Singleton)
}

// RequestToken creates a Request-scoped token for T.
func RequestToken[T any](name string) Token[T] {
	return NewToken[T](name).WithScope(Request)
}

// SessionToken creates a Session-scoped token for T.
func SessionToken[T any](name string) Token[T] {
	return NewToken[T](name).WithScope(Session)
}

// TransientToken creates a Transient-scoped token for T.
func TransientToken[T any](name string) Token[T] {
	return NewToken[T](name).WithScope(Transient)
}
