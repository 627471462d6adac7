package enum

// ── Order lifecycle (CHECK constrained in DB) ──

const (
	OrderStatusPendente   = "pendente"
	OrderStatusPreparando = "preparando"
	OrderStatusPronto     = "pronto"
	OrderStatusFinalizado = "finalizado"
	OrderStatusCancelado  = "cancelado"
)

const (
	PaymentStatusPendente = "pendente"
	PaymentStatusPago     = "pago"
)

// ── Store availability override (store_config row) ──

const (
	StoreStatusOpen   = "open"
	StoreStatusClosed = "closed"
	StoreStatusAuto   = "auto"
)

// StoreStatusKey is the store_config key holding the manual override.
const StoreStatusKey = "store_status"

// ── Configurable labels (no DB constraint) ──

const (
	PaymentMethodPix      = "pix"
	PaymentMethodDinheiro = "dinheiro"
	PaymentMethodCartao   = "cartao"
)
