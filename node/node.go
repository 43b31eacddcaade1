// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package node drives the staking engine block by block over a persistent state.
package node

import (
	"sync"
	"time"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/parastake/parastake/balances"
	"github.com/parastake/parastake/bridge"
	"github.com/parastake/parastake/genesis"
	"github.com/parastake/parastake/kv"
	"github.com/parastake/parastake/log"
	"github.com/parastake/parastake/metrics"
	"github.com/parastake/parastake/para"
	"github.com/parastake/parastake/staking"
	"github.com/parastake/parastake/staking/reverts"
	"github.com/parastake/parastake/staking/store"
	"github.com/parastake/parastake/state"
)

var logger = log.WithContext("pkg", "node")

var (
	chainAddress = para.NamedAddress("chain")
	slotHead     = para.BytesToBytes32([]byte("head"))

	metricBlocks      = metrics.LazyLoadCounter("node_blocks_produced_count")
	metricBlockMillis = metrics.LazyLoadHistogram("node_block_ms", metrics.BucketBlockMillis)
	metricHead        = metrics.LazyLoadGauge("node_head_block")
)

// Options tunes the simulated environment around the engine.
type Options struct {
	FeesPerBlock *uint256.Int // credited to the reward pot every block
	LiftDelay    uint64       // blocks before the relayer confirms a mint request
	LiftBps      uint64       // minted amount in basis points of the requested rewards
}

// Summary describes a produced block.
type Summary struct {
	Number uint64
	Author para.Address
	Era    uint64
	Root   para.Bytes32
	Lifted []uint64 // mint requests confirmed in the block
}

// Node owns the state database and produces blocks one at a time.
type Node struct {
	mu     sync.RWMutex
	stater *state.Stater
	root   para.Bytes32
	head   uint64
	opts   Options

	subsMu sync.Mutex
	subs   map[chan *Summary]struct{}
}

// New opens the node on db, building the genesis state when db is empty.
func New(db kv.Store, gen *genesis.Genesis, opts Options) (*Node, error) {
	stater := state.NewStater(db)
	root, err := stater.BestRoot()
	if err != nil {
		return nil, err
	}
	if root.IsZero() {
		if gen == nil {
			return nil, errors.New("empty database and no genesis")
		}
		if root, err = gen.Build(stater); err != nil {
			return nil, errors.Wrap(err, "build genesis")
		}
	}

	head, err := headValue(stater.NewState(root)).Get()
	if err != nil {
		return nil, err
	}
	if opts.FeesPerBlock == nil {
		opts.FeesPerBlock = new(uint256.Int)
	}
	logger.Info("node opened", "root", root, "head", head)
	return &Node{
		stater: stater,
		root:   root,
		head:   head,
		opts:   opts,
		subs:   make(map[chan *Summary]struct{}),
	}, nil
}

func headValue(st *state.State) *store.Value[uint64] {
	return store.NewValue[uint64](store.NewContext(chainAddress, st), slotHead)
}

// Head returns the number and state root of the last block.
func (n *Node) Head() (uint64, para.Bytes32) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.head, n.root
}

// NewSession implements staking.SessionHandler.
func (n *Node) NewSession(eraNum uint64, collators []para.Address) {
	logger.Debug("new session", "era", eraNum, "collators", len(collators))
}

// ProduceBlock produces the next block, authored in turn by the collators of
// the current era.
func (n *Node) ProduceBlock() (*Summary, error) {
	return n.produce(nil)
}

// ProduceBlockBy produces the next block with the given author.
func (n *Node) ProduceBlockBy(author para.Address) (*Summary, error) {
	return n.produce(&author)
}

func (n *Node) produce(author *para.Address) (*Summary, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	start := time.Now()
	number := n.head + 1
	st := n.stater.NewState(n.root)
	bals := balances.New(st)
	queue := bridge.New(st, number)
	staker := staking.New(st, bals, queue, n)

	if !n.opts.FeesPerBlock.IsZero() {
		if err := bals.Mint(staking.RewardPot, n.opts.FeesPerBlock); err != nil {
			return nil, errors.Wrap(err, "credit fees")
		}
	}
	if err := staker.OnInitialize(number); err != nil {
		return nil, err
	}
	info, err := staker.Era()
	if err != nil {
		return nil, err
	}

	summary := &Summary{Number: number, Era: info.Current}
	if author != nil {
		summary.Author = *author
	} else {
		selected, err := staker.Selected(info.Current)
		if err != nil {
			return nil, err
		}
		if len(selected) > 0 {
			summary.Author = selected[number%uint64(len(selected))]
		}
	}
	if !summary.Author.IsZero() {
		if err := staker.NoteAuthor(summary.Author); err != nil {
			return nil, err
		}
	}

	if summary.Lifted, err = n.relay(staker, queue, bals, number); err != nil {
		return nil, err
	}
	if err := headValue(st).Set(number); err != nil {
		return nil, err
	}
	root, err := st.Stage().Commit()
	if err != nil {
		return nil, errors.Wrap(err, "commit block")
	}
	n.root, n.head = root, number
	summary.Root = root

	n.publish(summary)
	metricBlocks().Add(1)
	metricHead().Set(int64(number))
	metricBlockMillis().Observe(time.Since(start).Milliseconds())
	logger.Trace("block produced", "number", number, "era", info.Current, "author", summary.Author, "root", root)
	return summary, nil
}

// Subscribe returns a channel receiving the summary of every block produced
// from now on, and a function ending the subscription. A subscriber whose
// buffer is full misses blocks.
func (n *Node) Subscribe(buffer int) (<-chan *Summary, func()) {
	ch := make(chan *Summary, buffer)
	n.subsMu.Lock()
	n.subs[ch] = struct{}{}
	n.subsMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			n.subsMu.Lock()
			delete(n.subs, ch)
			n.subsMu.Unlock()
		})
	}
}

func (n *Node) publish(summary *Summary) {
	n.subsMu.Lock()
	defer n.subsMu.Unlock()
	for ch := range n.subs {
		select {
		case ch <- summary:
		default:
			logger.Debug("subscriber lagging, block dropped", "number", summary.Number)
		}
	}
}

// relay confirms the mint requests pending for at least LiftDelay blocks:
// it mints into the growth pot and delivers the lift to the engine.
func (n *Node) relay(staker *staking.Staker, queue *bridge.Queue, bals *balances.Balances, number uint64) ([]uint64, error) {
	pending, err := queue.Pending()
	if err != nil {
		return nil, err
	}
	var lifted []uint64
	for _, req := range pending {
		if number < req.Block+n.opts.LiftDelay {
			continue
		}
		amount := new(uint256.Int).Mul(req.TotalRewards, uint256.NewInt(n.opts.LiftBps))
		amount.Div(amount, uint256.NewInt(10_000))

		if err := staker.OnMintRequestResult(req.ID, true); err != nil {
			if !reverts.IsRevertErr(err) {
				return nil, err
			}
			if err := queue.Resolve(req.ID, bridge.StatusFailed, nil); err != nil {
				return nil, err
			}
			continue
		}
		if err := bals.Mint(staking.GrowthPot, amount); err != nil {
			return nil, err
		}
		if err := staker.OnMintConfirmed(req.ID, amount); err != nil {
			if !reverts.IsRevertErr(err) {
				return nil, err
			}
			if err := queue.Resolve(req.ID, bridge.StatusFailed, amount); err != nil {
				return nil, err
			}
			continue
		}
		if err := queue.Resolve(req.ID, bridge.StatusConfirmed, amount); err != nil {
			return nil, err
		}
		lifted = append(lifted, req.ID)
		logger.Info("growth mint relayed", "request", req.ID, "block", number, "amount", amount)
	}
	return lifted, nil
}

// View is a read only snapshot of the head state.
type View struct {
	Head     uint64
	Root     para.Bytes32
	Staker   *staking.Staker
	Balances *balances.Balances
	Bridge   *bridge.Queue
}

// View runs fn against the head state. Writes made by fn are discarded.
func (n *Node) View(fn func(v *View) error) error {
	n.mu.RLock()
	defer n.mu.RUnlock()

	st := n.stater.NewState(n.root)
	bals := balances.New(st)
	queue := bridge.New(st, n.head)
	return fn(&View{
		Head:     n.head,
		Root:     n.root,
		Staker:   staking.New(st, bals, queue, nil),
		Balances: bals,
		Bridge:   queue,
	})
}
