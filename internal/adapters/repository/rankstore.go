package repository

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/touchline/scoutbase/internal/domain/types"
	"github.com/touchline/scoutbase/pkg/metrics"
)

// Treap-based, in-memory RankStore implementation, one tree per org.
//
// Ordering: score DESC, then playerID ASC (deterministic). The BST
// comparator treats "less" as "ranks earlier", so in-order traversal
// produces the ranking from best to worst.

// scoreScale controls fixed-point scaling from float64.
const scoreScale = 1_000_000_000 // 9 decimal places

type scoreFP int64

func toFixedPoint(x float64) scoreFP {
	if math.IsNaN(x) {
		return 0
	}
	scaled := x * scoreScale
	if scaled > float64(math.MaxInt64) {
		return scoreFP(math.MaxInt64)
	}
	if scaled < float64(math.MinInt64) {
		return scoreFP(math.MinInt64)
	}
	return scoreFP(math.Round(scaled))
}

func toFloat(x scoreFP) float64 {
	return float64(x) / scoreScale
}

// rec stores the fixed-point score plus display metadata for a player.
type rec struct {
	score    scoreFP
	name     string
	position string
}

// treap node
type node struct {
	id    string
	score scoreFP
	prio  uint64
	left  *node
	right *node
}

// less returns true if (aScore, aID) ranks before (bScore, bID).
func less(aScore scoreFP, aID string, bScore scoreFP, bID string) bool {
	if aScore != bScore {
		return aScore > bScore // higher score ranks earlier
	}
	return aID < bID // tie-breaker by id asc
}

func rotateRight(y *node) *node {
	x := y.left
	y.left = x.right
	x.right = y
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	x.right = y.left
	y.left = x
	return y
}

// scoreToPriority keeps higher scores nearer the treap root. The offset
// shifts negative fixed-point values into the unsigned range.
func scoreToPriority(score scoreFP) uint64 {
	const offset = uint64(1) << 63
	return uint64(score) + offset
}

func insert(n *node, id string, score scoreFP) *node {
	if n == nil {
		return &node{id: id, score: score, prio: scoreToPriority(score)}
	}
	if less(score, id, n.score, n.id) {
		n.left = insert(n.left, id, score)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, id, score)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	return n
}

func deleteNode(n *node, id string, score scoreFP) *node {
	if n == nil {
		return nil
	}
	if score == n.score && id == n.id {
		switch {
		case n.left == nil:
			return n.right
		case n.right == nil:
			return n.left
		case n.left.prio > n.right.prio:
			n = rotateRight(n)
			n.right = deleteNode(n.right, id, score)
		default:
			n = rotateLeft(n)
			n.left = deleteNode(n.left, id, score)
		}
		return n
	}
	if less(score, id, n.score, n.id) {
		n.left = deleteNode(n.left, id, score)
	} else {
		n.right = deleteNode(n.right, id, score)
	}
	return n
}

// collect appends up to limit entries in rank order (best first).
func collect(n *node, limit int, recs map[string]rec, out *[]types.RankEntry) {
	if n == nil || len(*out) >= limit {
		return
	}
	collect(n.left, limit, recs, out)
	if len(*out) < limit {
		if r, ok := recs[n.id]; ok {
			*out = append(*out, types.RankEntry{
				PlayerID: n.id,
				Name:     r.name,
				Position: r.position,
				Score:    toFloat(r.score),
			})
		}
	}
	collect(n.right, limit, recs, out)
}

// orgTree holds one organization's ranking state.
type orgTree struct {
	root *node
	byID map[string]rec
}

// TreapRankStore implements RankStore with one treap per organization.
type TreapRankStore struct {
	mu   sync.RWMutex
	orgs map[string]*orgTree
}

// NewTreapRankStore constructs an empty ranking store.
func NewTreapRankStore() *TreapRankStore {
	return &TreapRankStore{orgs: make(map[string]*orgTree)}
}

// UpdateScore records the player's latest weighted score, replacing any
// previous one. O(log n) expected per org.
func (s *TreapRankStore) UpdateScore(ctx context.Context, orgID, playerID, name, position string, score float64) (bool, error) {
	ns := toFixedPoint(score)

	s.mu.Lock()
	t, ok := s.orgs[orgID]
	if !ok {
		t = &orgTree{byID: make(map[string]rec)}
		s.orgs[orgID] = t
	}
	if old, ok := t.byID[playerID]; ok {
		if ns == old.score && old.name == name && old.position == position {
			s.mu.Unlock()
			return false, nil
		}
		t.root = deleteNode(t.root, playerID, old.score)
	}
	t.byID[playerID] = rec{score: ns, name: name, position: position}
	t.root = insert(t.root, playerID, ns)
	total := 0
	for _, o := range s.orgs {
		total += len(o.byID)
	}
	s.mu.Unlock()

	metrics.RecordRankingUpdate()
	metrics.UpdateRankedPlayers(total)
	return true, nil
}

// Rank returns the current rank and score for a player.
func (s *TreapRankStore) Rank(ctx context.Context, orgID, playerID string) (types.RankEntry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRankingQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.orgs[orgID]
	if !ok {
		return types.RankEntry{}, ErrNotFound
	}
	if _, ok := t.byID[playerID]; !ok {
		return types.RankEntry{}, ErrNotFound
	}

	all := make([]types.RankEntry, 0, len(t.byID))
	collect(t.root, len(t.byID), t.byID, &all)
	assignRanksWithTies(all)

	for _, e := range all {
		if e.PlayerID == playerID {
			return e, nil
		}
	}
	return types.RankEntry{}, ErrNotFound
}

// TopN returns the top N entries ordered by score desc.
func (s *TreapRankStore) TopN(ctx context.Context, orgID string, n int) ([]types.RankEntry, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRankingQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	if n < 1 {
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.orgs[orgID]
	if !ok {
		return []types.RankEntry{}, nil
	}
	out := make([]types.RankEntry, 0, n)
	collect(t.root, n, t.byID, &out)
	assignRanksWithTies(out)
	return out, nil
}

// Remove drops a player from the ranking.
func (s *TreapRankStore) Remove(ctx context.Context, orgID, playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.orgs[orgID]
	if !ok {
		return
	}
	if old, ok := t.byID[playerID]; ok {
		t.root = deleteNode(t.root, playerID, old.score)
		delete(t.byID, playerID)
	}
}

// Count returns the number of players ranked within the org.
func (s *TreapRankStore) Count(ctx context.Context, orgID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.orgs[orgID]; ok {
		return len(t.byID)
	}
	return 0
}

// assignRanksWithTies assigns dense ranks: players with the same score share
// a rank and the next distinct score takes the following rank.
func assignRanksWithTies(entries []types.RankEntry) {
	rank := 0
	for i := range entries {
		if i == 0 || entries[i].Score != entries[i-1].Score {
			rank++
		}
		entries[i].Rank = rank
	}
}
