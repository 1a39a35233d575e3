package metrics

// InfluencerInput holds the manual campaign inputs for one influencer deal:
// a flat fee, per-format post volumes with average views and CTR, and the
// funnel assumptions. ManualClicks/ManualFTD override the CTR/CVR estimates
// when provided and non-negative.
type InfluencerInput struct {
	Fee float64 `json:"fee"`

	ReelsQty      int     `json:"reels_qty"`
	ReelsAvgViews float64 `json:"reels_avg_views"`
	ReelsCTR      float64 `json:"reels_ctr"`

	StoriesQty      int     `json:"stories_qty"`
	StoriesAvgViews float64 `json:"stories_avg_views"`
	StoriesCTR      float64 `json:"stories_ctr"`

	TikTokQty      int     `json:"tiktok_qty"`
	TikTokAvgViews float64 `json:"tiktok_avg_views"`
	TikTokCTR      float64 `json:"tiktok_ctr"`

	ManualClicks *float64 `json:"manual_clicks"`
	ManualFTD    *float64 `json:"manual_ftd"`

	CVRFTD      float64 `json:"cvr_ftd"`
	ValuePerFTD float64 `json:"value_per_ftd"`
}

// InfluencerMetrics are the unit economics of the deal. Ratio fields are
// nil when their denominator is zero.
type InfluencerMetrics struct {
	TotalViews float64 `json:"total_views"`
	Clicks     float64 `json:"clicks"`
	FTD        float64 `json:"ftd"`
	Revenue    float64 `json:"revenue"`

	CPM    *float64 `json:"cpm"`
	CPC    *float64 `json:"cpc"`
	CPAFTD *float64 `json:"cpa_ftd"`
	ROAS   *float64 `json:"roas"`
	ROI    *float64 `json:"roi"`
}

// CalculateInfluencer derives views, clicks, first-time deposits, revenue
// and the cost ratios from the campaign inputs. Stateless.
func CalculateInfluencer(in InfluencerInput) InfluencerMetrics {
	reelsViews := float64(in.ReelsQty) * in.ReelsAvgViews
	storiesViews := float64(in.StoriesQty) * in.StoriesAvgViews
	tiktokViews := float64(in.TikTokQty) * in.TikTokAvgViews
	totalViews := reelsViews + storiesViews + tiktokViews

	estClicks := reelsViews*in.ReelsCTR + storiesViews*in.StoriesCTR + tiktokViews*in.TikTokCTR
	clicks := estClicks
	if in.ManualClicks != nil && *in.ManualClicks >= 0 {
		clicks = *in.ManualClicks
	}

	ftd := clicks * in.CVRFTD
	if in.ManualFTD != nil && *in.ManualFTD >= 0 {
		ftd = *in.ManualFTD
	}

	revenue := ftd * in.ValuePerFTD

	out := InfluencerMetrics{
		TotalViews: totalViews,
		Clicks:     clicks,
		FTD:        ftd,
		Revenue:    revenue,
	}

	if totalViews > 0 {
		cpm := in.Fee / totalViews * 1000
		out.CPM = &cpm
	}
	if clicks > 0 {
		cpc := in.Fee / clicks
		out.CPC = &cpc
	}
	if ftd > 0 {
		cpa := in.Fee / ftd
		out.CPAFTD = &cpa
	}
	if in.Fee > 0 {
		roas := revenue / in.Fee
		roi := (revenue - in.Fee) / in.Fee
		out.ROAS = &roas
		out.ROI = &roi
	}
	return out
}

// MaxFeeByROI solves for the highest fee that still hits the target ROI at
// the given revenue. Nil when the target makes the denominator non-positive.
func MaxFeeByROI(revenue, targetROI float64) *float64 {
	denom := 1.0 + targetROI
	if denom <= 0 {
		return nil
	}
	fee := revenue / denom
	return &fee
}

// MaxFeeByCPA is the highest fee that keeps cost-per-FTD at the target.
func MaxFeeByCPA(targetCPA, ftd float64) float64 {
	return targetCPA * ftd
}
