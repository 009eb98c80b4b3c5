package observability

const (
	MetricUpdatesReceivedTotal  = "dexstream_updates_received_total"
	MetricEventsDecodedTotal    = "dexstream_events_decoded_total"
	MetricEventsFilteredTotal   = "dexstream_events_filtered_total"
	MetricEventsDeliveredTotal  = "dexstream_events_delivered_total"
	MetricEventsDroppedTotal    = "dexstream_events_dropped_total"
	MetricDecodeMalformedTotal  = "dexstream_decode_malformed_total"
	MetricDecodeUnknownTotal    = "dexstream_decode_unknown_total"
	MetricBatchesFlushedTotal   = "dexstream_batches_flushed_total"
	MetricBatchSize             = "dexstream_batch_size"
	MetricStreamSlotLag         = "dexstream_slot_lag"
	MetricPublisherNATSacks     = "dexstream_publisher_nats_acks_total"
	MetricPublisherNATSErrors   = "dexstream_publisher_nats_errors_total"
	MetricReconnectsTotal       = "dexstream_stream_reconnects_total"
)
