package scorecard

type Trend string

const (
	TrendAhead   Trend = "ahead"
	TrendOnTrack Trend = "on-track"
	TrendBehind  Trend = "behind"
)

// Limites em porcentagem do esperado para o período decorrido
const (
	AheadThreshold   = 95.0
	OnTrackThreshold = 85.0
)

// Classify compara o realizado com o esperado proporcional ao tempo decorrido.
// Meta zero sempre resulta em on-track (evita divisão por zero, não é um juízo de desempenho).
// Com percentComplete zero o esperado é zero e a razão não é finita: +Inf vira ahead e
// NaN vira behind. Quem chama deve tratar esse caso (ver ClassifyProgress).
func Classify(actual, target, percentComplete float64) Trend {
	if target == 0 {
		return TrendOnTrack
	}

	expected := target * percentComplete / 100
	ratio := actual / expected * 100

	switch {
	case ratio >= AheadThreshold:
		return TrendAhead
	case ratio >= OnTrackThreshold:
		return TrendOnTrack
	default:
		return TrendBehind
	}
}

// ClassifyProgress protege o caso de progresso zero. O segundo retorno indica se a
// tendência foi de fato avaliada.
func ClassifyProgress(actual, target, percentComplete float64) (Trend, bool) {
	if percentComplete <= 0 {
		return TrendOnTrack, false
	}
	return Classify(actual, target, percentComplete), true
}
