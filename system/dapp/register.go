package dapp

import "sync"

// DriverCreator builds a fresh driver instance for one chain.
type DriverCreator func() Driver

var (
	regmu    sync.Mutex
	creators = make(map[string]DriverCreator)
)

// Register records a dapp so chains can instantiate it by name.
func Register(name string, creator DriverCreator) {
	regmu.Lock()
	defer regmu.Unlock()
	if _, ok := creators[name]; ok {
		panic("dapp already registered: " + name)
	}
	creators[name] = creator
}

func Load(name string) (DriverCreator, bool) {
	regmu.Lock()
	defer regmu.Unlock()
	creator, ok := creators[name]
	return creator, ok
}

func Registered() []string {
	regmu.Lock()
	defer regmu.Unlock()
	names := make([]string, 0, len(creators))
	for name := range creators {
		names = append(names, name)
	}
	return names
}
