package proxy

import (
	"sync"
	"time"

	"github.com/Philanthropists/toshl-go"
	"github.com/patrickmn/go-cache"
)

type ToshlClient interface {
	Categories(params *toshl.CategoryQueryParams) ([]toshl.Category, error)
	Accounts(params *toshl.AccountQueryParams) ([]toshl.Account, error)
	CreateCategory(category *toshl.Category) error
	CreateEntry(entry *toshl.Entry) error
}

type inMemoryCache interface {
	SetDefault(k string, v any)
	Get(k string) (any, bool)
	Delete(k string)
}

const (
	categoriesKey = "categories"
	accountsKey   = "accounts"
)

// ToshlCacheClient keeps the account and category lists of one Toshl token in
// memory. An import run asks for them once per transaction.
type ToshlCacheClient struct {
	Client          ToshlClient
	ExpirationTime  time.Duration
	CleanupInterval time.Duration

	once  sync.Once
	cache inMemoryCache
}

func (c *ToshlCacheClient) init() {
	c.once.Do(func() {
		const (
			defaultExpirationTime  = 5 * time.Minute
			defaultCleanupInterval = 1 * time.Minute
		)

		expTime := defaultExpirationTime
		if c.ExpirationTime != 0 {
			expTime = c.ExpirationTime
		}

		cleanupInt := defaultCleanupInterval
		if c.CleanupInterval != 0 {
			cleanupInt = c.CleanupInterval
		}

		c.cache = cache.New(expTime, cleanupInt)
	})
}

func cached[T any](c *ToshlCacheClient, k string, load func() ([]T, error)) ([]T, error) {
	c.init()

	if v, found := c.cache.Get(k); found {
		return v.([]T), nil
	}

	v, err := load()
	if err != nil {
		return nil, err
	}

	c.cache.SetDefault(k, v)
	return v, nil
}

// Categories only caches the unfiltered list.
func (c *ToshlCacheClient) Categories(params *toshl.CategoryQueryParams) ([]toshl.Category, error) {
	if params != nil {
		return c.Client.Categories(params)
	}

	return cached(c, categoriesKey, func() ([]toshl.Category, error) {
		return c.Client.Categories(nil)
	})
}

func (c *ToshlCacheClient) Accounts(params *toshl.AccountQueryParams) ([]toshl.Account, error) {
	if params != nil {
		return c.Client.Accounts(params)
	}

	return cached(c, accountsKey, func() ([]toshl.Account, error) {
		return c.Client.Accounts(nil)
	})
}

func (c *ToshlCacheClient) CreateCategory(category *toshl.Category) error {
	c.init()
	defer c.cache.Delete(categoriesKey)

	return c.Client.CreateCategory(category)
}

func (c *ToshlCacheClient) CreateEntry(entry *toshl.Entry) error {
	return c.Client.CreateEntry(entry)
}
