package vhost

//go:generate mockgen -destination=mocks/resolver_mock.go -package=mocks . Resolver

// Resolver Интерфейс поиска сайта по имени хоста.
type Resolver interface {
	Lookup(host string) (Site, bool)
}
