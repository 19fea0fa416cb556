package mq

// IMqProvider is the broker surface used by the event publisher and the
// command consumers.
type IMqProvider interface {
	Connect(connectionString string) error
	Disconnect()

	// Publish JSON-encodes data and sends it to exchangeName.
	Publish(exchangeName string, routingKey string, data interface{}) error

	// Subscribe delivers every message of queueName to callback. A non-nil
	// return rejects the message.
	Subscribe(queueName string, consumerTag string, callback func(data []byte) error) error

	DeclareExchange(exchangeName string, exchangeType string, durable bool) error
	DeclareQueue(queueName string, durable bool, bindingKey, exchange string) error
}
