package application

import "time"

// Operation declares how one unit of work is registered with the external
// task-execution framework: its queue name, execution deadline, and how many
// times the framework may automatically re-run it on failure.
type Operation struct {
	Name    string
	Timeout time.Duration
	Retries int
}

// Operation names as registered on the task queue.
const (
	OpGetProcessorConfig = "get_processor_config"
	OpUpdateOrderStatus  = "update_order_status"
	OpGetOrder           = "get_order"
	OpGetWebhookInfo     = "get_merchant_webhook_info"
	OpDeliverWebhook     = "deliver_webhook"
	OpCreateWebhookEvent = "create_webhook_event"
)

// Operations returns the task declarations for all six operations. Simple
// CRUD operations get framework-managed retries; webhook delivery gets none,
// because its retries are hand-managed through the persisted next_retry_at.
func Operations() []Operation {
	return []Operation{
		{Name: OpGetProcessorConfig, Timeout: 30 * time.Second, Retries: 3},
		{Name: OpUpdateOrderStatus, Timeout: 30 * time.Second, Retries: 3},
		{Name: OpGetOrder, Timeout: 30 * time.Second, Retries: 3},
		{Name: OpGetWebhookInfo, Timeout: 30 * time.Second, Retries: 3},
		{Name: OpDeliverWebhook, Timeout: 60 * time.Second, Retries: 0},
		{Name: OpCreateWebhookEvent, Timeout: 30 * time.Second, Retries: 3},
	}
}
