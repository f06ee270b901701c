package main

import (
	"context"
	"fmt"
	"time"

	"github.com/corvid-labs/godi/di"
)

// =============================================================================
// Domain Interfaces
// =============================================================================

// Logger defines the logging contract.
type Logger interface {
	Log(message string)
	LogError(message string)
}

// Config holds application configuration.
type Config interface {
	DatabaseURL() string
	CacheEnabled() bool
}

// Database represents a database connection.
type Database interface {
	Query(sql string) ([]map[string]any, error)
	Close() error
}

// Cache represents a caching layer.
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
}

// UserRepository handles user data access.
type UserRepository interface {
	FindByID(id int) (*User, error)
	FindAll() ([]*User, error)
}

// UserService handles user business logic.
type UserService interface {
	GetUser(id int) (*User, error)
	ListUsers() ([]*User, error)
}

// =============================================================================
// Domain Models
// =============================================================================

// User represents a user entity.
type User struct {
	ID    int
	Name  string
	Email string
}

// =============================================================================
// Implementations
// =============================================================================

// ConsoleLogger logs to stdout.
type ConsoleLogger struct {
	prefix string
}

// Log outputs an info message to stdout.
func (l *ConsoleLogger) Log(message string) {
	fmt.Printf("%s %s INFO: %s\n", l.prefix, time.Now().Format("15:04:05"), message)
}

// LogError outputs an error message to stdout.
func (l *ConsoleLogger) LogError(message string) {
	fmt.Printf("%s %s ERROR: %s\n", l.prefix, time.Now().Format("15:04:05"), message)
}

// AppConfig holds app configuration.
type AppConfig struct {
	dbURL        string
	cacheEnabled bool
}

// DatabaseURL returns the database connection URL.
func (c *AppConfig) DatabaseURL() string { return c.dbURL }

// CacheEnabled returns whether caching is enabled.
func (c *AppConfig) CacheEnabled() bool { return c.cacheEnabled }

// PostgresDatabase simulates a postgres connection.
type PostgresDatabase struct {
	logger Logger
	config Config
}

// Query executes a SQL query and returns results.
func (db *PostgresDatabase) Query(sql string) ([]map[string]any, error) {
	db.logger.Log(fmt.Sprintf("Executing query: %s", sql))
	return []map[string]any{
		{"id": 1, "name": "Alice", "email": "alice@example.com"},
		{"id": 2, "name": "Bob", "email": "bob@example.com"},
	}, nil
}

// Close closes the database connection. It satisfies di.SyncCloser so the
// container tears it down on Close/Shutdown.
func (db *PostgresDatabase) Close() error {
	db.logger.Log("Closing database connection")
	return nil
}

// InMemoryCache is a simple in-memory cache.
type InMemoryCache struct {
	logger Logger
	data   map[string]any
}

// Get retrieves a value from the cache.
func (c *InMemoryCache) Get(key string) (any, bool) {
	val, ok := c.data[key]
	return val, ok
}

// Set stores a value in the cache with the given TTL.
func (c *InMemoryCache) Set(key string, value any, ttl time.Duration) {
	c.data[key] = value
}

// DefaultUserRepository implements UserRepository.
type DefaultUserRepository struct {
	db     Database
	cache  Cache
	logger Logger
}

// FindByID finds a user by their ID.
func (r *DefaultUserRepository) FindByID(id int) (*User, error) {
	cacheKey := fmt.Sprintf("user:%d", id)

	if cached, ok := r.cache.Get(cacheKey); ok {
		r.logger.Log(fmt.Sprintf("Cache hit for user %d", id))
		return cached.(*User), nil
	}

	r.logger.Log(fmt.Sprintf("Cache miss for user %d, querying database", id))
	results, err := r.db.Query(fmt.Sprintf("SELECT * FROM users WHERE id = %d", id))
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("user %d not found", id)
	}

	user := &User{
		ID:    results[0]["id"].(int),
		Name:  results[0]["name"].(string),
		Email: results[0]["email"].(string),
	}

	r.cache.Set(cacheKey, user, 5*time.Minute)
	return user, nil
}

// FindAll retrieves all users from the database.
func (r *DefaultUserRepository) FindAll() ([]*User, error) {
	results, err := r.db.Query("SELECT * FROM users")
	if err != nil {
		return nil, err
	}

	users := make([]*User, len(results))
	for i, row := range results {
		users[i] = &User{
			ID:    row["id"].(int),
			Name:  row["name"].(string),
			Email: row["email"].(string),
		}
	}
	return users, nil
}

// DefaultUserService implements UserService.
type DefaultUserService struct {
	repo   UserRepository
	logger Logger
}

// GetUser retrieves a user by their ID.
func (s *DefaultUserService) GetUser(id int) (*User, error) {
	s.logger.Log(fmt.Sprintf("Getting user %d", id))
	return s.repo.FindByID(id)
}

// ListUsers retrieves all users.
func (s *DefaultUserService) ListUsers() ([]*User, error) {
	s.logger.Log("Listing all users")
	return s.repo.FindAll()
}

// RequestInfo is a request-scoped value, one instance per RequestScope call.
type RequestInfo struct {
	ID        string
	StartedAt time.Time
}

// =============================================================================
// Tokens
// =============================================================================

var (
	configToken    = di.SingletonToken[Config]("config")
	loggerToken    = di.SingletonToken[Logger]("logger")
	databaseToken  = di.SingletonToken[Database]("database")
	cacheToken     = di.SingletonToken[Cache]("cache")
	repoToken      = di.TransientToken[UserRepository]("user-repository")
	serviceToken   = di.TransientToken[UserService]("user-service")
	requestInfoTok = di.RequestToken[*RequestInfo]("request-info")
)

// =============================================================================
// Application Bootstrap
// =============================================================================

func main() {
	fmt.Println("╔══════════════════════════════════════════════════════════════╗")
	fmt.Println("║     godi — Dependency Injection Demo                          ║")
	fmt.Println("╚══════════════════════════════════════════════════════════════╝")
	fmt.Println()

	container := di.New()
	registerDependencies(container)

	ctx := context.Background()

	fmt.Println("\n─── Resolving UserService (providers pull their own dependencies) ───")
	fmt.Println()

	userService, err := di.Get(ctx, container, serviceToken)
	if err != nil {
		fmt.Printf("Failed to resolve UserService: %v\n", err)
		return
	}

	fmt.Println("\n─── Using the resolved service ───")
	fmt.Println()

	users, err := userService.ListUsers()
	if err != nil {
		fmt.Printf("Failed to list users: %v\n", err)
		return
	}

	fmt.Println("\n─── Results ───")
	fmt.Println()
	for _, user := range users {
		fmt.Printf("  → User: %s (%s)\n", user.Name, user.Email)
	}

	fmt.Println("\n─── Demonstrating Singleton Behavior ───")
	fmt.Println()

	logger1, _ := di.Get(ctx, container, loggerToken)
	logger2, _ := di.Get(ctx, container, loggerToken)
	logger1.Log("This is logger1")
	logger2.Log("This is logger2 (same instance as logger1)")

	fmt.Println("\n─── Demonstrating Request Scope ───")
	fmt.Println()
	demonstrateRequestScope(ctx, container)

	fmt.Println("\n─── Demonstrating Resolution Stats ───")
	fmt.Println()
	snap := container.Stats()
	fmt.Printf("  hits=%d misses=%d hit-rate=%.2f\n", snap.Hits, snap.Misses, snap.HitRate())

	fmt.Println("\n─── Shutting Down ───")
	fmt.Println()
	if err := container.Close(); err != nil {
		fmt.Printf("shutdown error: %v\n", err)
	}

	fmt.Println("\n─── Demo Complete ───")
}

func registerDependencies(c *di.Container) {
	fmt.Println("─── Registering Dependencies ───")
	fmt.Println()

	di.Register(c, configToken, func(ctx context.Context) (Config, error) {
		return &AppConfig{dbURL: "postgres://localhost:5432/myapp", cacheEnabled: true}, nil
	})
	fmt.Println("  ✓ Config registered as Singleton")

	di.Register(c, loggerToken, func(ctx context.Context) (Logger, error) {
		return &ConsoleLogger{prefix: "[APP]"}, nil
	})
	fmt.Println("  ✓ Logger registered as Singleton")

	di.Register(c, databaseToken, func(ctx context.Context) (Database, error) {
		logger, err := di.Get(ctx, c, loggerToken)
		if err != nil {
			return nil, err
		}
		config, err := di.Get(ctx, c, configToken)
		if err != nil {
			return nil, err
		}
		logger.Log(fmt.Sprintf("Connecting to database: %s", config.DatabaseURL()))
		return &PostgresDatabase{logger: logger, config: config}, nil
	})
	fmt.Println("  ✓ Database registered as Singleton")

	di.Register(c, cacheToken, func(ctx context.Context) (Cache, error) {
		logger, err := di.Get(ctx, c, loggerToken)
		if err != nil {
			return nil, err
		}
		logger.Log("Initializing in-memory cache")
		return &InMemoryCache{logger: logger, data: make(map[string]any)}, nil
	})
	fmt.Println("  ✓ Cache registered as Singleton")

	di.Register(c, repoToken, func(ctx context.Context) (UserRepository, error) {
		db, err := di.Get(ctx, c, databaseToken)
		if err != nil {
			return nil, err
		}
		cache, err := di.Get(ctx, c, cacheToken)
		if err != nil {
			return nil, err
		}
		logger, err := di.Get(ctx, c, loggerToken)
		if err != nil {
			return nil, err
		}
		logger.Log("Creating user repository")
		return &DefaultUserRepository{db: db, cache: cache, logger: logger}, nil
	})
	fmt.Println("  ✓ UserRepository registered as Transient")

	di.Register(c, serviceToken, func(ctx context.Context) (UserService, error) {
		repo, err := di.Get(ctx, c, repoToken)
		if err != nil {
			return nil, err
		}
		logger, err := di.Get(ctx, c, loggerToken)
		if err != nil {
			return nil, err
		}
		logger.Log("Creating user service")
		return &DefaultUserService{repo: repo, logger: logger}, nil
	})
	fmt.Println("  ✓ UserService registered as Transient")

	di.Register(c, requestInfoTok, func(ctx context.Context) (*RequestInfo, error) {
		return &RequestInfo{ID: fmt.Sprintf("req-%d", time.Now().UnixNano()), StartedAt: time.Now()}, nil
	})
	fmt.Println("  ✓ RequestInfo registered as Request-scoped")
}

func demonstrateRequestScope(ctx context.Context, c *di.Container) {
	err := c.RequestScope(ctx, func(ctx context.Context) error {
		a, err := di.Get(ctx, c, requestInfoTok)
		if err != nil {
			return err
		}
		b, err := di.Get(ctx, c, requestInfoTok)
		if err != nil {
			return err
		}
		fmt.Printf("  Request scope A: %s\n", a.ID)
		fmt.Printf("  Request scope B: %s\n", b.ID)
		fmt.Printf("  Same instance? %v\n", a == b)
		return nil
	})
	if err != nil {
		fmt.Printf("request scope failed: %v\n", err)
		return
	}

	err = c.RequestScope(ctx, func(ctx context.Context) error {
		other, err := di.Get(ctx, c, requestInfoTok)
		if err != nil {
			return err
		}
		fmt.Printf("\n  A different request scope: %s\n", other.ID)
		return nil
	})
	if err != nil {
		fmt.Printf("request scope failed: %v\n", err)
	}
}
