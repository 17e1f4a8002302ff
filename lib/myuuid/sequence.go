package myuuid

import (
	"fmt"
	"sync"
)

// SequenceUUIDer hands out predictable ids like "<prefix>1", "<prefix>2", ...
type SequenceUUIDer struct {
	sync.Mutex
	Prefix string
	next   int
}

func (u *SequenceUUIDer) Create() string {
	u.Lock()
	defer u.Unlock()

	u.next++
	return fmt.Sprintf("%s%d", u.Prefix, u.next)
}
