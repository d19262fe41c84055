package anova

import (
	"encoding/json"
	"fmt"
	"math"

	"goanova/domain/core"
)

// Table rows and comparisons legitimately carry NaN and infinite statistics
// (residual rows, zero-variance samples), which encoding/json refuses to
// emit. The custom codecs below map NaN to null and infinities to the
// strings "+Inf" and "-Inf", in both directions.

func encodeStat(v float64) interface{} {
	switch {
	case math.IsNaN(v):
		return nil
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	default:
		return v
	}
}

func decodeStat(v interface{}) (float64, error) {
	switch val := v.(type) {
	case nil:
		return math.NaN(), nil
	case float64:
		return val, nil
	case string:
		switch val {
		case "+Inf":
			return math.Inf(1), nil
		case "-Inf":
			return math.Inf(-1), nil
		}
		return 0, fmt.Errorf("unrecognized statistic %q", val)
	default:
		return 0, fmt.Errorf("unrecognized statistic type %T", v)
	}
}

type tableRowJSON struct {
	Term   string      `json:"term"`
	SumSq  float64     `json:"sum_sq"`
	DF     int         `json:"df"`
	MeanSq interface{} `json:"mean_sq"`
	F      interface{} `json:"f"`
	PValue interface{} `json:"p_value"`
}

func (r TableRow) MarshalJSON() ([]byte, error) {
	return json.Marshal(tableRowJSON{
		Term:   r.Term,
		SumSq:  r.SumSq,
		DF:     r.DF,
		MeanSq: encodeStat(r.MeanSq),
		F:      encodeStat(r.F),
		PValue: encodeStat(r.PValue),
	})
}

func (r *TableRow) UnmarshalJSON(data []byte) error {
	var raw tableRowJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	meanSq, err := decodeStat(raw.MeanSq)
	if err != nil {
		return err
	}
	f, err := decodeStat(raw.F)
	if err != nil {
		return err
	}
	p, err := decodeStat(raw.PValue)
	if err != nil {
		return err
	}
	*r = TableRow{
		Term:   raw.Term,
		SumSq:  raw.SumSq,
		DF:     raw.DF,
		MeanSq: meanSq,
		F:      f,
		PValue: p,
	}
	return nil
}

type pairwiseComparisonJSON struct {
	Group1    core.GroupLabel `json:"group1"`
	Group2    core.GroupLabel `json:"group2"`
	MeanDiff  float64         `json:"mean_diff"`
	AdjustedP interface{}     `json:"adjusted_p"`
	Lower     float64         `json:"lower"`
	Upper     float64         `json:"upper"`
	Reject    bool            `json:"reject"`
}

func (c PairwiseComparison) MarshalJSON() ([]byte, error) {
	return json.Marshal(pairwiseComparisonJSON{
		Group1:    c.Group1,
		Group2:    c.Group2,
		MeanDiff:  c.MeanDiff,
		AdjustedP: encodeStat(c.AdjustedP),
		Lower:     c.Lower,
		Upper:     c.Upper,
		Reject:    c.Reject,
	})
}

func (c *PairwiseComparison) UnmarshalJSON(data []byte) error {
	var raw pairwiseComparisonJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	adjustedP, err := decodeStat(raw.AdjustedP)
	if err != nil {
		return err
	}
	*c = PairwiseComparison{
		Group1:    raw.Group1,
		Group2:    raw.Group2,
		MeanDiff:  raw.MeanDiff,
		AdjustedP: adjustedP,
		Lower:     raw.Lower,
		Upper:     raw.Upper,
		Reject:    raw.Reject,
	}
	return nil
}
