package strategy

// WeatherMatrix returns the weather strategy decision matrix served to
// pit-wall and debate consumers.
func WeatherMatrix() string {
	return `**F1 Weather Strategy Decision Matrix**

**DRY → WET CONDITIONS:**

*Light Rain (0-2mm/hr):*
- Track Position Strategy: Stay out if P1-P3, pit if P4+
- Tire Choice: Intermediates only if rain increasing
- Risk Level: Monitor closely, prepare for quick decision

*Moderate Rain (2-5mm/hr):*
- Immediate Action: Pit for intermediates within 2 laps
- Strategy: First to pit often gains advantage
- Risk Level: Staying out = very high risk

*Heavy Rain (5mm/hr+):*
- Immediate Action: Pit immediately for full wets
- Strategy: Safety first, positions will shuffle
- Risk Level: Staying out = dangerous

**WET → DRY CONDITIONS:**

*Track Drying:*
- Pit Window: Wait for racing line to appear dry
- First to Slicks: Massive advantage (5-10 seconds/lap)
- Risk: Pitting too early = slide off track

*Crossover Point:*
- Intermediate → Dry: When dry line appears
- Full Wet → Intermediate: When rain reduces to light
- Timing is crucial: 1 lap can make/break race

**STRATEGIC PRINCIPLES:**

1. **Track Position vs Tire Strategy**
   - Monaco/Hungary: Favor track position
   - Spa/Silverstone: Favor optimal tire choice

2. **Championship Implications**
   - Leading: Conservative approach in mixed conditions
   - Trailing: Aggressive tire gambles more acceptable

3. **Safety Car Factor**
   - Wet conditions increase safety car probability
   - Plan strategy around potential neutralization`
}
