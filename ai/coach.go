package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"cyberholdem/holdem"
)

// AdviceStat is one labelled metric shown in the coach panel.
type AdviceStat struct {
	Label   string `json:"label"`
	Value   string `json:"value"`
	Quality string `json:"quality"` // good | neutral | bad | hot
}

// Advice is the coach's analysis of the observer's spot. RecommendedAmount
// is nil when the recommendation carries no sizing.
type Advice struct {
	Recommendation    string       `json:"recommendation"`
	RecommendedAmount *int         `json:"recommendedAmount"`
	Body              string       `json:"body"`
	Stats             []AdviceStat `json:"stats"`
}

// Coach analyzes the observer's spot and produces advice. Implementations
// never mutate game state.
type Coach interface {
	Analyze(ctx context.Context, view *holdem.GameView, seatID int) Advice
}

// GTOCoach analyzes the human player's spot without an LLM: range tables
// preflop, Monte Carlo equity and board texture postflop.
type GTOCoach struct {
	equity *EquityEstimator
	log    zerolog.Logger
}

func NewGTOCoach(equity *EquityEstimator, log zerolog.Logger) *GTOCoach {
	return &GTOCoach{
		equity: equity,
		log:    log.With().Str("coach", "gto").Logger(),
	}
}

func quality(value, goodThreshold, badThreshold float64) string {
	if value >= goodThreshold {
		return "good"
	}
	if value <= badThreshold {
		return "bad"
	}
	return "neutral"
}

func (h *GTOCoach) fallbackAdvice() Advice {
	return Advice{
		Recommendation: "CHECK",
		Body:           "GTO Coach 暂时无法分析当前局面，请稍后再试。",
		Stats:          []AdviceStat{{Label: "状态", Value: "ERROR", Quality: "bad"}},
	}
}

func (h *GTOCoach) Analyze(ctx context.Context, view *holdem.GameView, seatID int) Advice {
	me := view.Me(seatID)
	if me == nil || len(me.Hand) < 2 {
		return h.fallbackAdvice()
	}

	toCall := view.ToCall(seatID)
	position := Position(seatID, view.DealerIdx, len(view.Players))

	if view.State == holdem.STREET_PREFLOP {
		return h.analyzePreflop(me, view, position, toCall)
	}
	return h.analyzePostflop(me, view, position, toCall)
}

func cardsString(cards []holdem.Card) string {
	parts := make([]string, 0, len(cards))
	for _, c := range cards {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, " ")
}

func (h *GTOCoach) analyzePreflop(me *holdem.PlayerView, view *holdem.GameView, position string, toCall int) Advice {
	combo := HandCombo(me.Hand[0], me.Hand[1])
	openF := OpenFreq(combo, position)
	callF := CallFreq(combo, position)
	canCheck := toCall == 0
	posLabel := positionDisplay(position)
	handStr := cardsString(me.Hand)

	var rec, strengthLabel, actionDesc string
	var recAmount *int

	if canCheck {
		switch {
		case openF >= 0.8:
			rec = "RAISE"
			amt := min(int(float64(view.MinRaise)*2.5), me.Chips)
			recAmount = &amt
			strengthLabel = "强"
			actionDesc = fmt.Sprintf("这是一手在 %s 的强起手牌（开注频率 %.0f%%），标准开注尺度为 2.5×BB。", posLabel, openF*100)
		case openF >= 0.5:
			rec = "RAISE"
			amt := min(int(float64(view.MinRaise)*2.5), me.Chips)
			recAmount = &amt
			strengthLabel = "中等偏强"
			actionDesc = fmt.Sprintf("在 %s 此手牌属于中等偏强范围（开注频率 %.0f%%），可以开注。", posLabel, openF*100)
		case openF >= 0.2:
			rec = "CHECK"
			strengthLabel = "边缘"
			actionDesc = fmt.Sprintf("在 %s 此手牌属于边缘范围（开注频率 %.0f%%），可以用混频策略开注或 check。", posLabel, openF*100)
		default:
			rec = "FOLD"
			strengthLabel = "弱"
			actionDesc = fmt.Sprintf("在 %s 此手牌范围外（GTO 开注频率 %.0f%%），建议弃牌。", posLabel, openF*100)
		}
	} else {
		potOdds := float64(toCall) / float64(view.Pot+toCall)
		switch {
		case callF >= 0.75:
			rec = "CALL"
			strengthLabel = "强"
			actionDesc = fmt.Sprintf("面对加注，%s 在 %s 的跟注频率为 %.0f%%，满足底池赔率要求（%.0f%%），建议跟注。", combo, posLabel, callF*100, potOdds*100)
		case callF >= 0.4:
			rec = "CALL"
			strengthLabel = "可跟注"
			actionDesc = fmt.Sprintf("面对加注，%s 在 %s 跟注频率 %.0f%%，属于混频跟注范围。", combo, posLabel, callF*100)
		default:
			rec = "FOLD"
			strengthLabel = "范围外"
			actionDesc = fmt.Sprintf("面对加注，%s 在 %s 超出跟注范围（频率 %.0f%%），建议弃牌。", combo, posLabel, callF*100)
		}
	}

	body := fmt.Sprintf(
		"【翻牌前分析】手牌：%s，位置：%s\n\n%s\n\nGTO 要点：\n"+
			"• 开注范围：%s GTO 开注约 %d%% 的手牌\n"+
			"• %s 属于%s手牌，开注频率 %.0f%%\n"+
			"• 翻牌前混频策略避免对手锁定你的范围\n"+
			"• 注意位置优势：BTN > CO > MP > EP",
		handStr, posLabel, actionDesc, posLabel, approxOpenPct(position), combo, strengthLabel, openF*100,
	)

	return Advice{
		Recommendation:    rec,
		RecommendedAmount: recAmount,
		Body:              body,
		Stats: []AdviceStat{
			{Label: "手牌强度", Value: strengthLabel, Quality: quality(openF, 0.7, 0.3)},
			{Label: "开注频率", Value: fmt.Sprintf("%.0f%%", openF*100), Quality: quality(openF, 0.6, 0.25)},
			{Label: "位置", Value: posLabel, Quality: posQuality(position)},
			{Label: "推荐", Value: rec, Quality: recQuality(rec)},
		},
	}
}

func (h *GTOCoach) analyzePostflop(me *holdem.PlayerView, view *holdem.GameView, position string, toCall int) Advice {
	numOpp := max(1, view.ActiveOpponents(me.ID))
	equity := h.equity.Estimate(me.Hand, view.CommunityCards, numOpp, EQUITY_SIMS_COACH).Equity()
	texture := AnalyzeBoard(view.CommunityCards)
	pot := view.Pot
	canCheck := toCall == 0
	posLabel := positionDisplay(position)

	potOdds := 0.0
	if toCall > 0 {
		potOdds = float64(toCall) / float64(pot+toCall)
	}

	betFraction, valueThreshold := 0.33, 0.65
	if texture.Wetness >= 0.5 {
		betFraction, valueThreshold = 0.66, 0.70
	}
	betSize := max(int(float64(pot)*betFraction), view.MinRaise)
	betSize = min(betSize, me.Chips)
	bluffFreq := float64(betSize) / float64(pot+2*betSize)

	var rec, recReason string
	var recAmount *int
	if canCheck {
		switch {
		case equity >= valueThreshold:
			rec = "RAISE"
			recAmount = &betSize
			recReason = fmt.Sprintf("胜率 %.0f%% 超过价值下注阈值（%.0f%%），建议下注 %d%% 底池获取价值。", equity*100, valueThreshold*100, int(betFraction*100))
		case equity >= 0.45:
			rec = "CHECK"
			recReason = fmt.Sprintf("胜率 %.0f%% 属中等，建议 check 进行底池控制，避免膨胀底池。", equity*100)
		default:
			rec = "CHECK"
			recReason = fmt.Sprintf("胜率 %.0f%% 较低，建议 check。如果对手下注可以考虑弃牌（GTO 诈唬频率 %.0f%%）。", equity*100, bluffFreq*100)
		}
	} else {
		switch {
		case equity > potOdds+0.12:
			rec = "CALL"
			recReason = fmt.Sprintf("胜率 %.0f%% 远超底池赔率 %.0f%%，建议跟注，有充分的权益优势。", equity*100, potOdds*100)
		case equity > potOdds+0.05:
			rec = "CALL"
			recReason = fmt.Sprintf("胜率 %.0f%% 略高于底池赔率 %.0f%%，属于临界跟注，建议跟注。", equity*100, potOdds*100)
		default:
			rec = "FOLD"
			recReason = fmt.Sprintf("胜率 %.0f%% 不满足底池赔率要求 %.0f%%，建议弃牌。", equity*100, potOdds*100)
		}
	}

	textureParts := make([]string, 0, 3)
	if texture.FlushDraw {
		textureParts = append(textureParts, "同花听牌")
	}
	if texture.StraightDraw {
		textureParts = append(textureParts, "顺子听牌")
	}
	if texture.Paired {
		textureParts = append(textureParts, "对子牌面")
	}
	textureDesc := "干燥牌面"
	if len(textureParts) > 0 {
		textureDesc = strings.Join(textureParts, "、")
	}
	wetnessLabel := "干燥"
	if texture.Wetness >= 0.5 {
		wetnessLabel = "湿润"
	}

	streetCN := map[holdem.Street]string{
		holdem.STREET_FLOP:  "翻牌",
		holdem.STREET_TURN:  "转牌",
		holdem.STREET_RIVER: "河牌",
	}[view.State]
	if streetCN == "" {
		streetCN = string(view.State)
	}

	boardStr := cardsString(view.CommunityCards)
	if boardStr == "" {
		boardStr = "（等待翻牌）"
	}
	posAdvantage := "位置劣势，注意保守"
	posMark := " ✗"
	if isInPosition(position) {
		posAdvantage = "有位置优势"
		posMark = " ✓"
	}

	body := fmt.Sprintf(
		"【%s分析】手牌：%s，公共牌：%s\n\n%s\n\nGTO 要点：\n"+
			"• 胜率：%.0f%%，底池赔率：%.0f%%（需要满足才能盈利跟注）\n"+
			"• 牌面质地：%s（%s，湿润度 %.0f%%）\n"+
			"• 建议下注尺度：%d%% 底池（约 $%d）\n"+
			"• GTO 诈唬比例：%.0f%%，保持价值/诈唬平衡\n"+
			"• 位置：%s，%s",
		streetCN, cardsString(me.Hand), boardStr, recReason,
		equity*100, potOdds*100,
		textureDesc, wetnessLabel, texture.Wetness*100,
		int(betFraction*100), betSize,
		bluffFreq*100,
		posLabel, posAdvantage,
	)

	return Advice{
		Recommendation:    rec,
		RecommendedAmount: recAmount,
		Body:              body,
		Stats: []AdviceStat{
			{Label: "胜率估计", Value: fmt.Sprintf("%.0f%%", equity*100), Quality: quality(equity, 0.65, 0.40)},
			{Label: "底池赔率", Value: fmt.Sprintf("%.0f%%", potOdds*100), Quality: quality(equity-potOdds, 0.1, -0.05)},
			{Label: "位置", Value: posLabel + posMark, Quality: posQuality(position)},
			{Label: "推荐", Value: rec, Quality: recQuality(rec)},
		},
	}
}

func positionDisplay(pos string) string {
	mapping := map[string]string{
		"BTN": "BTN（按钮位）",
		"CO":  "CO（截止位）",
		"MP":  "MP（中间位）",
		"EP":  "EP（早期位）",
		"SB":  "SB（小盲）",
		"BB":  "BB（大盲）",
	}
	if label, ok := mapping[pos]; ok {
		return label
	}
	return pos
}

// isInPosition reports whether the seat acts last postflop.
func isInPosition(pos string) bool {
	return pos == "BTN" || pos == "CO"
}

func posQuality(pos string) string {
	switch pos {
	case "BTN", "CO":
		return "good"
	case "SB", "EP":
		return "bad"
	}
	return "neutral"
}

func recQuality(rec string) string {
	switch rec {
	case "RAISE":
		return "hot"
	case "CALL":
		return "good"
	}
	return "bad"
}

func approxOpenPct(pos string) int {
	pct := map[string]int{"BTN": 65, "CO": 50, "MP": 35, "EP": 22, "SB": 45, "BB": 0}
	if v, ok := pct[pos]; ok {
		return v
	}
	return 35
}
