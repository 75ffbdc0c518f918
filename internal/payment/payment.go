package payment

import (
	"fmt"
	"math/rand"
	"time"

	"ceethaluxe/internal/domain/model"
)

// 決済結果。失敗・キャンセル時はReasonが入る。
type Result struct {
	Success   bool
	Reference string
	Reason    string
}

const ReasonUserCancelled = "user_cancelled"

// 決済の約束。裏側を本物のゲートウェイに差し替えても
// 注文側のロジックは変えない。
type Provider interface {
	Initialize(order model.Order, callback func(Result))
}

// SimulatedProviderは固定の待ち時間のあと必ず成功を返す。
// 参照番号は本実装と同じ SIM_ 形式。
type SimulatedProvider struct {
	delay time.Duration
}

func NewSimulatedProvider(delay time.Duration) *SimulatedProvider {
	return &SimulatedProvider{delay: delay}
}

func (p *SimulatedProvider) Initialize(order model.Order, callback func(Result)) {
	go func() {
		time.Sleep(p.delay)
		callback(Result{
			Success:   true,
			Reference: fmt.Sprintf("SIM_%d", rand.Intn(1000000000)),
		})
	}()
}
