package kvstore

var _ Operation = &op{}
var _ KVBatch = &Batch{}

type Operation interface {
	Partition() string
	Key() []byte
	Value() []byte
}

type op struct {
	P string
	K []byte
	V []byte
}

func (o *op) Partition() string {
	if o == nil {
		return ""
	}
	return o.P
}

func (o *op) Key() []byte {
	if o == nil {
		return nil
	}
	return o.K
}

func (o *op) Value() []byte {
	if o == nil {
		return nil
	}
	return o.V
}

// Batch is the operation list shared by every engine; engines replay it inside
// their own write transaction.
type Batch struct {
	Ops []Operation
}

func NewBatch() *Batch {
	return &Batch{
		Ops: make([]Operation, 0, 64),
	}
}

func (b *Batch) Set(partition string, key, val []byte) {
	ck := make([]byte, len(key))
	copy(ck, key)
	cv := make([]byte, len(val))
	copy(cv, val)
	b.Ops = append(b.Ops, &op{partition, ck, cv})
}

func (b *Batch) Operations() []Operation {
	return b.Ops
}

func (b *Batch) Len() int {
	return len(b.Ops)
}

// for reuse
func (b *Batch) Reset() {
	b.Ops = b.Ops[:0]
}

func (b *Batch) Close() error {
	return nil
}
