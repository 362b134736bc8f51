package queue

// Limits governing multidab batching.
const (
	// MaxMultidabMessages caps how many messages one multidab batch
	// may contain.
	MaxMultidabMessages = 1024

	// MaxMultidabArea caps the accumulated dab area of one multidab
	// batch: 256*256*16.
	MaxMultidabArea = 256 * 256 * 16

	// BatchAreaThreshold is half of MaxMultidabArea: a batch's first
	// message must estimate at or below this to be eligible for
	// peeking further messages onto the batch.
	BatchAreaThreshold = MaxMultidabArea / 2
)
