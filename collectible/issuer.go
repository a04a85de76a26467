// Package collectible sells numbered items for ledger tokens. Buyers approve
// the issuer's address on the ledger; a mint pulls the cost into the
// issuer's treasury and records one item per unit of quantity, each with an
// arcana value fixed at mint time.
package collectible

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/holiman/uint256"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/sha3"

	"github.com/bitfsorg/libvibe-go/account"
	"github.com/bitfsorg/libvibe-go/ledger"
	"github.com/bitfsorg/libvibe-go/render"
)

// DefaultMaxMintPerTx caps the quantity of one mint.
const DefaultMaxMintPerTx = 20

// ArcanaRange bounds arcana values: [0, ArcanaRange).
const ArcanaRange = 10_000

// Item is one minted collectible.
type Item struct {
	ID     uint64
	Owner  account.Address
	Arcana uint32
}

// Option configures an Issuer.
type Option func(*Issuer)

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(i *Issuer) { i.log = log.With().Str("component", "collectible").Logger() }
}

// WithSink receives committed events.
func WithSink(fn func(Event)) Option {
	return func(i *Issuer) { i.sinks = append(i.sinks, fn) }
}

// WithSalt sets the arcana salt.
func WithSalt(salt [32]byte) Option {
	return func(i *Issuer) { i.salt = salt }
}

// Issuer mints items against a ledger.
type Issuer struct {
	mu sync.Mutex

	l        *ledger.Ledger
	self     account.Address
	owner    *account.Ownership
	treasury account.Address
	price    uint256.Int
	maxMint  uint64
	revealed bool
	salt     [32]byte
	items    []Item

	log   zerolog.Logger
	sinks []func(Event)
}

// NewIssuer creates an issuer that spends allowances granted to self. The
// treasury starts as owner. The default salt is keccak256(self).
func NewIssuer(l *ledger.Ledger, self, owner account.Address, opts ...Option) (*Issuer, error) {
	if l == nil {
		return nil, fmt.Errorf("collectible: nil ledger")
	}
	if self.IsZero() {
		return nil, fmt.Errorf("%w: issuer", ErrZeroAddress)
	}
	o, err := account.NewOwnership(owner)
	if err != nil {
		return nil, err
	}

	i := &Issuer{
		l:        l,
		self:     self,
		owner:    o,
		treasury: owner,
		maxMint:  DefaultMaxMintPerTx,
		log:      zerolog.Nop(),
	}
	copy(i.salt[:], keccak(self[:]))
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

func keccak(parts ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, p := range parts {
		h.Write(p)
	}
	return h.Sum(nil)
}

// Arcana returns keccak256(salt || id || buyer) mod ArcanaRange.
func Arcana(salt [32]byte, id uint64, buyer account.Address) uint32 {
	var idb [8]byte
	binary.BigEndian.PutUint64(idb[:], id)
	v := new(uint256.Int).SetBytes(keccak(salt[:], idb[:], buyer[:]))
	return uint32(v.Mod(v, uint256.NewInt(ArcanaRange)).Uint64())
}

// MintWithToken sells qty items to buyer. The cost price*qty moves from
// buyer to the treasury through the buyer's allowance to the issuer; any
// ledger error is returned unchanged and nothing is minted.
func (i *Issuer) MintWithToken(buyer account.Address, qty uint64) ([]Item, error) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if qty == 0 {
		return nil, ErrZeroQuantity
	}
	if qty > i.maxMint {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooMany, qty, i.maxMint)
	}
	if i.price.IsZero() {
		return nil, ErrPriceNotSet
	}
	cost, overflow := new(uint256.Int).MulOverflow(&i.price, uint256.NewInt(qty))
	if overflow {
		return nil, ErrCostOverflow
	}

	if err := i.l.TransferFrom(i.self, buyer, i.treasury, cost); err != nil {
		return nil, err
	}

	first := uint64(len(i.items))
	minted := make([]Item, 0, qty)
	for n := uint64(0); n < qty; n++ {
		id := first + n
		it := Item{ID: id, Owner: buyer, Arcana: Arcana(i.salt, id, buyer)}
		i.items = append(i.items, it)
		minted = append(minted, it)
	}

	i.log.Debug().Stringer("buyer", buyer).Uint64("first", first).Uint64("qty", qty).Str("cost", cost.Dec()).Msg("minted")
	i.emit(MintedEvent{Buyer: buyer, FirstID: first, Quantity: qty, Cost: *cost})
	return minted, nil
}

// Item returns the item with id.
func (i *Issuer) Item(id uint64) (Item, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if id >= uint64(len(i.items)) {
		return Item{}, fmt.Errorf("%w: %d", ErrNonexistent, id)
	}
	return i.items[id], nil
}

// TokenURI returns the metadata URI of id: a shared placeholder before
// reveal, the rendered sigil after.
func (i *Issuer) TokenURI(id uint64) ([]byte, error) {
	it, err := i.Item(id)
	if err != nil {
		return nil, err
	}
	i.mu.Lock()
	revealed := i.revealed
	i.mu.Unlock()
	if !revealed {
		return render.Placeholder(), nil
	}
	return render.Render(it.ID, it.Arcana), nil
}

// ItemsOf returns the items owned by addr in id order.
func (i *Issuer) ItemsOf(addr account.Address) []Item {
	i.mu.Lock()
	defer i.mu.Unlock()
	var out []Item
	for _, it := range i.items {
		if it.Owner == addr {
			out = append(out, it)
		}
	}
	return out
}

// Supply returns the number of minted items.
func (i *Issuer) Supply() uint64 {
	i.mu.Lock()
	defer i.mu.Unlock()
	return uint64(len(i.items))
}

// Address returns the issuer's own ledger account, the spender in MintWithToken.
func (i *Issuer) Address() account.Address { return i.self }

// Owner returns the account allowed to call the admin methods.
func (i *Issuer) Owner() account.Address {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.owner.Owner()
}

// Treasury returns the account mint payments are sent to.
func (i *Issuer) Treasury() account.Address {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.treasury
}

// Price returns the cost of one item in ledger base units. Zero means unpriced.
func (i *Issuer) Price() *uint256.Int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return new(uint256.Int).Set(&i.price)
}

// MaxMintPerTx returns the largest quantity one mint may request.
func (i *Issuer) MaxMintPerTx() uint64 {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.maxMint
}

// Revealed reports whether TokenURI renders items instead of the placeholder.
func (i *Issuer) Revealed() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.revealed
}

func (i *Issuer) emit(e Event) {
	for _, s := range i.sinks {
		s(e)
	}
}
