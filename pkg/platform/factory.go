package platform

// NewPlatform creates the platform implementation for the running process
func NewPlatform() Platform {
	return &OSPlatform{}
}

// WithEnvironment returns a Platform that answers environment and working
// directory lookups from env and everything else from base.
func WithEnvironment(base Platform, env Environment) Platform {
	return &overlay{Platform: base, env: env}
}

type overlay struct {
	Platform
	env Environment
}

func (o *overlay) Getenv(key string) string {
	return o.env.Getenv(key)
}

func (o *overlay) LookupEnv(key string) (string, bool) {
	return o.env.LookupEnv(key)
}

func (o *overlay) Getwd() (string, error) {
	return o.env.Getwd()
}
