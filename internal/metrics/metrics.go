package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics agrupa los contadores del servicio. Un *Metrics nil es valido y no registra nada.
type Metrics struct {
	ProfileMerges        *prometheus.CounterVec
	ProfileVerifications *prometheus.CounterVec
	CVUploads            *prometheus.CounterVec
	VoiceSessions        *prometheus.CounterVec
}

// New crea y registra los contadores en reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ProfileMerges: f.NewCounterVec(prometheus.CounterOpts{
			Name: "profile_merges_total",
			Help: "Profile merge attempts by source and outcome",
		}, []string{"source", "outcome"}),
		ProfileVerifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "profile_verifications_total",
			Help: "Identity verification attempts by outcome",
		}, []string{"outcome"}),
		CVUploads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cv_uploads_total",
			Help: "CV uploads by outcome",
		}, []string{"outcome"}),
		VoiceSessions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "voice_sessions_total",
			Help: "Recorded voice sessions by profile merge status",
		}, []string{"merge"}),
	}
}

func (m *Metrics) ObserveMerge(source, outcome string) {
	if m == nil {
		return
	}
	m.ProfileMerges.WithLabelValues(source, outcome).Inc()
}

func (m *Metrics) ObserveVerification(outcome string) {
	if m == nil {
		return
	}
	m.ProfileVerifications.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveUpload(outcome string) {
	if m == nil {
		return
	}
	m.CVUploads.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveVoiceSession(merge string) {
	if m == nil {
		return
	}
	m.VoiceSessions.WithLabelValues(merge).Inc()
}
