// 每个unit随机抽取至多 maxSpikes 个spike (无放回, 等概率), 抽样后保持升序
package sample

import (
	"math/rand/v2"

	"github.com/bits-and-blooms/bitset"
)

// DefaultMaxSpikes 每个unit默认最多保留的spike数
const DefaultMaxSpikes = 3000

// RandomSpikes maxSpikes <= 0 或 spike数不足时返回原序列的拷贝
func RandomSpikes(spikes []int64, maxSpikes int, r *rand.Rand) []int64 {
	n := len(spikes)
	if maxSpikes <= 0 || n <= maxSpikes {
		out := make([]int64, n)
		copy(out, spikes)
		return out
	}

	mask := selectIndices(n, maxSpikes, r)
	out := make([]int64, 0, maxSpikes)
	for i, ok := mask.NextSet(0); ok; i, ok = mask.NextSet(i + 1) {
		out = append(out, spikes[i])
	}
	return out
}

// Floyd 抽样: 从 [0, n) 中等概率选 k 个下标, 只需 k 次随机数
func selectIndices(n, k int, r *rand.Rand) *bitset.BitSet {
	mask := bitset.New(uint(n))
	for j := n - k; j < n; j++ {
		t := uint(r.IntN(j + 1))
		if mask.Test(t) {
			mask.Set(uint(j))
		} else {
			mask.Set(t)
		}
	}
	return mask
}
