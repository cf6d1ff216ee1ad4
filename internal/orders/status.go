package orders

type Status string

// Orders are immutable once placed; downstream fulfilment states live in
// other systems.
const StatusPlaced Status = "PLACED"
