package siri

// expiryTask removes whatever is still pending from one registered batch.
//
// Ids already consumed by HandleResponse are skipped silently.
type expiryTask struct {
	manager *Manager
	ids     []SubscriptionID
}

func (t *expiryTask) run() {
	m := t.manager

	expired := 0
	for _, id := range t.ids {
		p, ok := m.registry.Remove(id)
		if !ok {
			continue
		}
		expired++

		m.sink.Report(Event{
			Kind:       EventExpired,
			ID:         id,
			ModuleType: p.ModuleType,
			Pending:    &p,
		})
	}

	m.metrics.RecordExpired(expired)
	m.metrics.RecordPendingCount(m.registry.Len())
}
