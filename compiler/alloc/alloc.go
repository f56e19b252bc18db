package alloc

type (
	// Table maps storage keys to data memory addresses.
	// A new key takes the next free address, a known key takes its old one.
	Table struct {
		next int64
		addr map[string]int64
	}
)

// Base is the first address handed out.
const Base = 100

func New() *Table {
	return &Table{
		next: Base,
		addr: map[string]int64{},
	}
}

func (t *Table) Get(key string) (a int64) {
	a, ok := t.addr[key]
	if ok {
		return a
	}

	a = t.next
	t.next++

	t.addr[key] = a

	return a
}

func (t *Table) Len() int {
	return len(t.addr)
}
