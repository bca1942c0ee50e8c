package booking

// AdapterSet resolves a clinic's configured integration to a concrete
// scheduler adapter. Unknown and empty identifiers fall through to the
// in-house adapter.
type AdapterSet struct {
	inHouse   SchedulerAdapter
	gesden    SchedulerAdapter
	klinicare SchedulerAdapter
}

func NewAdapterSet(inHouse SchedulerAdapter) *AdapterSet {
	return &AdapterSet{
		inHouse:   inHouse,
		gesden:    NewGesdenAdapter(),
		klinicare: NewKlinicareAdapter(),
	}
}

func (s *AdapterSet) For(integration string) SchedulerAdapter {
	switch ParseIntegration(integration) {
	case IntegrationGesden:
		return s.gesden
	case IntegrationKlinicare:
		return s.klinicare
	default:
		return s.inHouse
	}
}
