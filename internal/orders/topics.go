package orders

const TopicOrderPlaced = "orders.placed"

// Partition key = order_id, so every event for one order stays ordered.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
