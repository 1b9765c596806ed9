package cbor

import "math"

const (
	// MaxNesting is the deepest array/map nesting the encoder and decoder
	// track. The trackers hold MaxNesting+1 levels; level 0 stands for
	// "not inside any container". Do not raise this above 255.
	MaxNesting = 15

	// MaxOffset is the largest output position at which a container may
	// be opened. It sits below math.MaxUint32 so that exceeding it is
	// still detectable in the 32-bit start offsets kept per level.
	MaxOffset = math.MaxUint32 - 100

	// MaxItemsInContainer is the largest number of items an array or map
	// may hold. Map items count labels and values separately, so a map
	// holds at most MaxItemsInContainer/2 pairs.
	MaxItemsInContainer = math.MaxUint16 - 1

	// MaxCallerTags is the largest caller-configured tag list.
	MaxCallerTags = 16

	// MaxTagsPerItem is the number of tag numbers recorded on one item.
	MaxTagsPerItem = 4

	// indefiniteCount marks a decode level that closes only on break.
	indefiniteCount = math.MaxUint16
)

// Worst-case encoded header sizes.
const (
	// containerHeaderSize is the placeholder reserved when a definite
	// array or map is opened. Item counts are 16-bit, so the largest
	// header is the initial byte plus a uint16.
	containerHeaderSize = 3

	// bstrHeaderSize is the placeholder reserved for a wrapped byte
	// string, whose length is bounded by MaxOffset.
	bstrHeaderSize = 5

	// maxHeadSize is the longest item head: initial byte plus a uint64.
	maxHeadSize = 9
)
