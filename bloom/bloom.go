package bloom

import (
	"math"

	"github.com/hupe1980/lsmgo/internal/simd"
	"github.com/spaolacci/murmur3"
)

const (
	// BlockSize is the size of one filter block in bytes: one cache line.
	BlockSize = 64

	blockBits     = 8 * BlockSize // 512
	wordsPerBlock = BlockSize / 8 // 8

	// numHashes is the number of probe positions per item. Four probes is
	// the sweet spot for roughly 1% false positives at 10-15 bits per key.
	numHashes = 4

	// maxLanes is the number of precomputed hash lanes per item.
	maxLanes = 8
)

type block [wordsPerBlock]uint64

// BlockedBloomFilter is a fixed-capacity probabilistic membership set
// organized in cache-line-sized blocks. All probes for one item land in at
// most numHashes blocks, so a membership test touches a handful of cache
// lines instead of scattering across the whole bit array.
//
// Contains never returns false for an inserted item; it may return true for
// items never inserted, at a rate governed by the filter size.
//
// Insert is not safe for concurrent use. A fully built filter is immutable
// and safe for lock-free concurrent reads, which is how SSTables use it.
type BlockedBloomFilter struct {
	blocks    []block
	numBlocks uint64
	count     uint64
	wide      bool
}

// New creates a filter with the given byte budget, rounded down to whole
// blocks. Budgets below one block are clamped to a single block.
func New(sizeBytes int) *BlockedBloomFilter {
	numBlocks := sizeBytes / BlockSize
	if numBlocks < 1 {
		numBlocks = 1
	}

	return &BlockedBloomFilter{
		blocks:    make([]block, numBlocks),
		numBlocks: uint64(numBlocks),
		wide:      simd.HasWideProbe(),
	}
}

// Insert adds an item to the filter.
func (f *BlockedBloomFilter) Insert(item []byte) {
	lanes := f.lanes(item)

	for i := 0; i < numHashes; i++ {
		blockIdx, wordIdx, mask := f.position(lanes[i])
		f.blocks[blockIdx][wordIdx] |= mask
	}

	f.count++
}

// Contains reports whether an item may have been inserted. A false result
// is definitive.
func (f *BlockedBloomFilter) Contains(item []byte) bool {
	lanes := f.lanes(item)

	if f.wide {
		return f.containsWide(&lanes)
	}
	return f.containsScalar(&lanes)
}

// containsScalar tests probe positions one lane at a time with early exit.
func (f *BlockedBloomFilter) containsScalar(lanes *[maxLanes]uint64) bool {
	for i := 0; i < numHashes; i++ {
		blockIdx, wordIdx, mask := f.position(lanes[i])
		if f.blocks[blockIdx][wordIdx]&mask == 0 {
			return false
		}
	}
	return true
}

// containsWide tests two hash lanes per iteration without branching between
// lanes, which lets the CPU issue the block loads in parallel. It must make
// exactly the same accept/reject decision as containsScalar for every input;
// the equivalence is pinned by a randomized test.
func (f *BlockedBloomFilter) containsWide(lanes *[maxLanes]uint64) bool {
	var miss uint64
	for i := 0; i < numHashes; i += 2 {
		b0, w0, m0 := f.position(lanes[i])
		b1, w1, m1 := f.position(lanes[i+1])

		miss |= ^f.blocks[b0][w0] & m0
		miss |= ^f.blocks[b1][w1] & m1
	}
	return miss == 0
}

// lanes derives maxLanes probe hashes from two murmur3 base hashes using
// enhanced double hashing: h_i = h1 + i*h2 + i*i.
func (f *BlockedBloomFilter) lanes(item []byte) [maxLanes]uint64 {
	h1, h2 := murmur3.Sum128(item)

	var lanes [maxLanes]uint64
	for i := uint64(0); i < maxLanes; i++ {
		lanes[i] = h1 + i*h2 + i*i
	}
	return lanes
}

// position maps one probe hash to a block, a word within the block, and a
// single-bit mask. The low hash half selects the block, the high half the
// bit within it.
func (f *BlockedBloomFilter) position(hash uint64) (blockIdx, wordIdx int, mask uint64) {
	blockIdx = int(hash % f.numBlocks)
	bitIdx := (hash >> 32) % blockBits
	return blockIdx, int(bitIdx / 64), 1 << (bitIdx % 64)
}

// Count returns the number of Insert calls, duplicates included.
func (f *BlockedBloomFilter) Count() uint64 {
	return f.count
}

// NumBlocks returns the number of cache-line blocks in the filter.
func (f *BlockedBloomFilter) NumBlocks() int {
	return int(f.numBlocks)
}

// SizeBytes returns the filter's bit array size in bytes.
func (f *BlockedBloomFilter) SizeBytes() int {
	return int(f.numBlocks) * BlockSize
}

// EstimatedFPR estimates the false-positive rate for the current fill:
// (1 - e^{-k*n/m})^k with k probes, n inserted items and m bits.
func (f *BlockedBloomFilter) EstimatedFPR() float64 {
	if f.count == 0 {
		return 0
	}

	n := float64(f.count)
	m := float64(f.numBlocks * blockBits)
	k := float64(numHashes)
	return math.Pow(1-math.Exp(-k*n/m), k)
}
