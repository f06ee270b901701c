package di_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/corvid-labs/godi/di"
)

type exampleLogger struct{}

func (exampleLogger) Log(msg string) { fmt.Println(msg) }

func ExampleNew() {
	c := di.New()
	token := di.NewToken[Greeter]("greeter")
	di.Register(c, token, func(ctx context.Context) (Greeter, error) {
		return &SimpleGreeter{}, nil
	})

	greeter, _ := di.Get(context.Background(), c, token)
	fmt.Println(greeter.Greet("Gopher"))
	// Output: Hello, Gopher
}

func ExampleRegister() {
	c := di.New()
	token := di.NewToken[Logger]("logger")
	di.Register(c, token, func(ctx context.Context) (Logger, error) {
		return exampleLogger{}, nil
	})

	logger, _ := di.Get(context.Background(), c, token)
	logger.Log("hello")
	// Output: hello
}

func ExampleRegister_withDependencies() {
	c := di.New()
	loggerToken := di.NewToken[Logger]("logger")
	greeterToken := di.NewToken[Greeter]("greeter")
	serviceToken := di.NewToken[Service]("service")

	di.Register(c, loggerToken, func(ctx context.Context) (Logger, error) {
		return exampleLogger{}, nil
	})
	di.Register(c, greeterToken, func(ctx context.Context) (Greeter, error) {
		return &SimpleGreeter{}, nil
	})
	di.Register(c, serviceToken, func(ctx context.Context) (Service, error) {
		logger, err := di.Get(ctx, c, loggerToken)
		if err != nil {
			return nil, err
		}
		greeter, err := di.Get(ctx, c, greeterToken)
		if err != nil {
			return nil, err
		}
		return &DefaultService{logger: logger, greeter: greeter}, nil
	})

	service, _ := di.Get(context.Background(), c, serviceToken)
	fmt.Println(service.DoWork())
	// Output:
	// doing work
	// Hello, World
}

func ExampleRegister_withError() {
	c := di.New()
	token := di.NewToken[Logger]("logger")
	di.Register(c, token, func(ctx context.Context) (Logger, error) {
		return nil, errors.New("boom")
	})

	_, err := di.Get(context.Background(), c, token)
	fmt.Println(err)
	// Output: di: failed to resolve logger: boom
}

func ExampleRegisterValue() {
	c := di.New()
	token := di.NewToken[Logger]("logger")
	di.RegisterValue(c, token, Logger(exampleLogger{}))

	logger, _ := di.Get(context.Background(), c, token)
	logger.Log("pre-built instance")
	// Output: pre-built instance
}

func ExampleAsSingleton() {
	c := di.New()
	calls := 0
	token := di.NewToken[Logger]("logger")
	di.Register(c, token, func(ctx context.Context) (Logger, error) {
		calls++
		return exampleLogger{}, nil
	}, di.AsSingleton())

	_, _ = di.Get(context.Background(), c, token)
	_, _ = di.Get(context.Background(), c, token)
	fmt.Println(calls)
	// Output: 1
}

func ExampleWithQualifier() {
	c := di.New()
	console := di.NewToken[Logger]("logger").WithQualifier("console")
	file := di.NewToken[Logger]("logger").WithQualifier("file")

	di.Register(c, console, func(ctx context.Context) (Logger, error) { return exampleLogger{}, nil })
	di.Register(c, file, func(ctx context.Context) (Logger, error) { return exampleLogger{}, nil })

	fmt.Println(di.Has(c, console), di.Has(c, file))
	// Output: true true
}

func ExampleHas() {
	c := di.New()
	token := di.NewToken[Logger]("logger")
	fmt.Println(di.Has(c, token))

	di.Register(c, token, func(ctx context.Context) (Logger, error) { return exampleLogger{}, nil })
	fmt.Println(di.Has(c, token))
	// Output:
	// false
	// true
}

func ExampleContainer_RequestScope() {
	c := di.New()
	token := di.NewToken[Logger]("logger").WithScope(di.Request)
	di.Register(c, token, func(ctx context.Context) (Logger, error) {
		return exampleLogger{}, nil
	})

	_ = c.RequestScope(context.Background(), func(ctx context.Context) error {
		a, _ := di.Get(ctx, c, token)
		b, _ := di.Get(ctx, c, token)
		fmt.Println(a == b)
		return nil
	})
	// Output: true
}

func ExampleOverride() {
	c := di.New()
	token := di.NewToken[Greeter]("greeter").WithScope(di.Singleton)
	di.Register(c, token, func(ctx context.Context) (Greeter, error) { return &SimpleGreeter{}, nil })

	di.Override(c, token, Greeter(&formalGreeter{}))

	greeter, _ := di.Get(context.Background(), c, token)
	fmt.Println(greeter.Greet("Gopher"))
	// Output: Good day, Gopher
}

func ExampleUseOverrides() {
	c := di.New()
	token := di.NewToken[Greeter]("greeter")
	di.Register(c, token, func(ctx context.Context) (Greeter, error) { return &SimpleGreeter{}, nil })

	_ = di.UseOverrides(context.Background(), []di.Override{
		di.With(token, Greeter(&formalGreeter{})),
	}, func(ctx context.Context) error {
		greeter, _ := di.Get(ctx, c, token)
		fmt.Println(greeter.Greet("Gopher"))
		return nil
	})

	greeter, _ := di.Get(context.Background(), c, token)
	fmt.Println(greeter.Greet("Gopher"))
	// Output:
	// Good day, Gopher
	// Hello, Gopher
}

func ExampleContainer_Clear() {
	c := di.New()
	token := di.NewToken[Logger]("logger")
	di.Register(c, token, func(ctx context.Context) (Logger, error) { return exampleLogger{}, nil })

	fmt.Println(di.Has(c, token))
	c.Clear()
	fmt.Println(di.Has(c, token))
	// Output:
	// true
	// false
}

func ExampleNotRegisteredError() {
	c := di.New()
	token := di.NewToken[Logger]("logger")

	_, err := di.Get(context.Background(), c, token)
	var notRegistered di.NotRegisteredError
	if errors.As(err, &notRegistered) {
		fmt.Println(notRegistered.Token)
	}
	// Output: logger
}

// Example_layeredArchitecture wires a small logger/greeter/service
// stack the way a larger application would, resolving the top-level
// service and letting it pull its own dependencies.
func Example_layeredArchitecture() {
	c := di.New()

	loggerToken := di.NewToken[Logger]("logger").WithScope(di.Singleton)
	greeterToken := di.NewToken[Greeter]("greeter").WithScope(di.Singleton)
	serviceToken := di.NewToken[Service]("service")

	di.Register(c, loggerToken, func(ctx context.Context) (Logger, error) {
		return exampleLogger{}, nil
	})
	di.Register(c, greeterToken, func(ctx context.Context) (Greeter, error) {
		return &SimpleGreeter{}, nil
	})
	di.Register(c, serviceToken, func(ctx context.Context) (Service, error) {
		logger, err := di.Get(ctx, c, loggerToken)
		if err != nil {
			return nil, err
		}
		greeter, err := di.Get(ctx, c, greeterToken)
		if err != nil {
			return nil, err
		}
		return &DefaultService{logger: logger, greeter: greeter}, nil
	})

	service, _ := di.Get(context.Background(), c, serviceToken)
	fmt.Println(service.DoWork())
	// Output:
	// doing work
	// Hello, World
}

// Example_testing shows substituting a test double for the current call
// only, leaving the container's real registration untouched for every
// other test.
func Example_testing() {
	c := di.New()
	loggerToken := di.NewToken[Logger]("logger")
	di.Register(c, loggerToken, func(ctx context.Context) (Logger, error) {
		return exampleLogger{}, nil
	})

	spy := &TestLogger{}
	_ = di.UseOverrides(context.Background(), []di.Override{
		di.With(loggerToken, Logger(spy)),
	}, func(ctx context.Context) error {
		logger, _ := di.Get(ctx, c, loggerToken)
		logger.Log("during test")
		return nil
	})

	fmt.Println(spy.Messages)
	// Output: [during test]
}
