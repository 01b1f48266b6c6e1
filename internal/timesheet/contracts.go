package timesheet

// ContractCache resolves project contracts lazily and keeps them for the
// session. There is no TTL and no invalidation; staleness is accepted. A
// failed fetch stores an empty list so the page keeps rendering, but the
// failure is not pinned: the next reference to the project fetches again.
type ContractCache struct {
	contracts map[string][]Contract
	failed    map[string]bool
}

func NewContractCache() *ContractCache {
	return &ContractCache{
		contracts: make(map[string][]Contract),
		failed:    make(map[string]bool),
	}
}

// Need reports whether the project's contracts must be fetched: true on
// first reference and after a failed fetch, false once a fetch succeeded.
func (c *ContractCache) Need(projectID string) bool {
	if _, ok := c.contracts[projectID]; !ok {
		return true
	}
	return c.failed[projectID]
}

// Add stores a successful fetch result, replacing whatever was cached.
func (c *ContractCache) Add(projectID string, list []Contract) {
	if list == nil {
		list = []Contract{}
	}
	c.contracts[projectID] = list
	c.failed[projectID] = false
}

// Fail records a failed fetch: an empty list is cached so dropdowns render,
// and the project stays eligible for a retry.
func (c *ContractCache) Fail(projectID string) {
	c.contracts[projectID] = []Contract{}
	c.failed[projectID] = true
}

// Cached returns whatever is currently stored for the project.
func (c *ContractCache) Cached(projectID string) ([]Contract, bool) {
	list, ok := c.contracts[projectID]
	return list, ok
}

// Title resolves a contract id to its display title from the cache. It never
// refetches; an unknown id resolves to the id itself.
func (c *ContractCache) Title(projectID, contractID string) string {
	for _, contract := range c.contracts[projectID] {
		if contract.ID == contractID {
			return contract.Title
		}
	}
	return contractID
}
