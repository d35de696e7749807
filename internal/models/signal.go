package models

type Action string

const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
	ActionHold Action = "hold"
)

// Opinion — сырой голос одного источника до агрегации.
type Opinion struct {
	Action     Action
	Confidence float64 // [0,1]
	Reason     string
}

// NeutralOpinion используется когда источник упал или данных не хватает.
func NeutralOpinion(reason string) Opinion {
	return Opinion{Action: ActionHold, Confidence: 0, Reason: reason}
}

type VoteCounts struct {
	Buy   int
	Sell  int
	Hold  int
	Total int
}

// Signal — итоговое решение агрегатора.
//
// Confidence равен 0 для Hold по пути "нет сигналов". Для Hold после отсечки
// по порогу рассчитанный Confidence сохраняется как есть (для наблюдаемости),
// а для Hold, победившего в голосовании, он может быть ненулевым.
type Signal struct {
	Action     Action
	Confidence float64
	Reason     string
	Votes      VoteCounts
}
