// Package kafkasink publishes pipeline results to Kafka.
//
// A Sink turns each value of a batch into one message, JSON-encoded by
// default, and writes the batch with a single WriteMessages call. It plugs
// straight into a refresher:
//
//	writer := &kafka.Writer{Addr: kafka.TCP("localhost:9092"), Topic: "open-orders"}
//	defer writer.Close()
//
//	sink, err := kafkasink.New(kafkasink.Config{Writer: writer})
//	if err != nil {
//		return err
//	}
//	r, err := refresh.New(refresh.Config{
//		Schedule: "@every 1m",
//		Pipeline: openOrders,
//		Sink:     sink.Publish,
//	})
//
// Messages carry the headers HeaderBatch, HeaderIndex and HeaderCount so a
// consumer can tell when it has seen a whole batch.
package kafkasink
