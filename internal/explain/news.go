package explain

import (
	"fmt"
	"strings"

	"github.com/ppiankov/truthlens/internal/model"
	"github.com/ppiankov/truthlens/internal/util"
)

type narrative struct {
	match func(lower string) bool
	text  string
}

var narratives = []narrative{
	{match: hydrationTopic, text: hydrationNews},
	{match: mentions("vaccine", "vaccination"), text: vaccineNews},
	{match: mentions("climate", "global warming", "temperature"), text: climateNews},
	{match: mentions("election", "vote", "ballot", "fraud"), text: electionNews},
	{match: mentions("5g", "radiation", "cell tower", "wireless"), text: wirelessNews},
	{match: mentions("earth is flat", "flat earth"), text: flatEarthNews},
	{match: mentions("covid vaccine contains microchip", "vaccine microchip", "bill gates microchip"), text: microchipNews},
	{match: mentions("drink bleach", "bleach cure", "mms cure"), text: bleachNews},
}

var redFlags = []string{
	"doctors hate this", "one weird trick", "they don't want you to know",
	"big pharma", "government cover-up", "secret cure",
}

// FactualNews returns a short narrative about the claim's topic. Topic
// narratives are checked in order; claims matching none get a generic
// verdict paragraph for their category.
func FactualNews(claimText string, category model.Category, score float64) string {
	lower := strings.ToLower(claimText)
	for _, n := range narratives {
		if n.match(lower) {
			return n.text
		}
	}

	if category == "" {
		category = model.CategoryGeneral
	}

	switch {
	case util.ContainsAny(lower, redFlags) || score < 3:
		return fmt.Sprintf(likelyFalseNews, category)
	case score >= 7:
		return fmt.Sprintf(likelyTrueNews, category)
	default:
		return fmt.Sprintf(needsVerificationNews, category)
	}
}

const hydrationNews = `According to the Mayo Clinic and National Academies of Sciences, the human body is approximately 60% water and proper hydration is essential for bodily functions including temperature regulation, joint lubrication, and nutrient transport.

Recent medical research confirms that adequate hydration supports immune function and overall health. However, the CDC emphasizes that no single intervention can prevent all diseases - disease prevention requires multiple factors including genetics, lifestyle, vaccination, and proper medical care.

The National Academies recommend about 15.5 cups (3.7 liters) of fluids daily for men and 11.5 cups (2.7 liters) for women, including water from food and other beverages. While the "8 glasses of water" guideline is commonly cited, actual hydration needs vary based on activity level, climate, and individual health factors.`

const vaccineNews = `The FDA and CDC report that vaccines undergo rigorous testing in multiple phases of clinical trials before approval and continue to be monitored for safety and effectiveness after deployment.

According to CDC vaccine impact studies, vaccines have prevented an estimated 21 million hospitalizations and 732,000 deaths among children born in the last 20 years in the United States alone.

Current vaccine safety monitoring systems include the Vaccine Adverse Event Reporting System (VAERS), Vaccine Safety Datalink (VSD), and Clinical Immunization Safety Assessment (CISA) project, which continuously track vaccine safety across millions of doses administered.`

const climateNews = `NASA's Goddard Institute for Space Studies reports that multiple independent datasets show global average temperatures have risen by approximately 1.1°C (2°F) since the late 19th century, with most warming occurring in the past 40 years.

Scientific consensus research shows that over 97% of actively publishing climate scientists agree that recent climate change is primarily caused by human activities, based on multiple independent studies.

The Intergovernmental Panel on Climate Change (IPCC), composed of thousands of scientists worldwide, regularly publishes comprehensive assessments of climate science, impacts, and mitigation strategies based on peer-reviewed research.`

const electionNews = `Election security experts and officials from both major political parties have confirmed that the 2020 U.S. election was conducted securely with multiple verification systems in place.

The Department of Homeland Security called it "the most secure election in American history," while state election officials from both parties certified results after recounts and audits in contested states.

Election security measures include paper ballot backups, signature verification, poll watchers from both parties, post-election audits, and cybersecurity protocols developed in coordination with federal agencies.`

const wirelessNews = `The Federal Communications Commission (FCC) and World Health Organization maintain that 5G technology operates within established safety guidelines for radiofrequency exposure.

Scientific studies by the International Commission on Non-Ionizing Radiation Protection show that 5G frequencies are non-ionizing radiation, similar to radio waves, and operate at power levels well below harmful thresholds.

The FDA states that current safety limits for cell phone radiation are based on extensive research and are designed to provide a substantial margin of safety for all age groups.`

const flatEarthNews = `Scientific evidence conclusively demonstrates that Earth is spherical (an oblate spheroid). This has been confirmed through:

• Satellite imagery and space missions showing Earth's curvature
• Ships disappearing hull-first over the horizon due to Earth's curvature
• Different star constellations visible from different latitudes
• Time zone differences caused by Earth's rotation
• Gravity measurements consistent with a spherical mass
• Photographs from the International Space Station and lunar missions

NASA, ESA, and space agencies worldwide have provided extensive photographic and scientific evidence of Earth's spherical shape.`

const microchipNews = `Medical and technical experts have thoroughly debunked claims about microchips in COVID-19 vaccines. Here are the facts:

• Vaccine ingredients are publicly available and contain mRNA or viral proteins, lipids, salts, and sugars - no electronic components
• Microchips require power sources and antennas that would be visible and detectable
• The needle used for vaccination is too small to accommodate any tracking device
• No credible evidence or documentation supports these claims

The FDA, CDC, and international health organizations have transparently published all vaccine ingredients and manufacturing processes.`

const bleachNews = `WARNING: Drinking bleach or similar disinfectants is extremely dangerous and potentially fatal. Medical authorities strongly warn against this:

• The FDA has issued multiple warnings that these products can cause severe chemical burns to the mouth, throat, and digestive system
• Poison control centers report serious injuries and deaths from ingesting bleach-based products
• No legitimate medical evidence supports using bleach as a cure for any disease
• These substances can cause organ failure, breathing difficulties, and death

For any health concerns, consult licensed medical professionals, not unverified online sources.`

const likelyFalseNews = `This %s-related claim contains language patterns commonly associated with misinformation and lacks credible supporting evidence.

FACT CHECK RESULT: LIKELY FALSE or MISLEADING

Reliable information on this topic can be found through:
• Peer-reviewed scientific journals
• Government health agencies (CDC, FDA, WHO)
• Academic medical institutions
• Established fact-checking organizations

Always verify health and scientific claims with qualified professionals and authoritative sources.`

const likelyTrueNews = `This %s-related claim is supported by available evidence from reputable sources.

FACT CHECK RESULT: LIKELY TRUE

The information appears consistent with current scientific understanding and authoritative sources. However, continue to verify important claims through multiple reliable sources.`

const needsVerificationNews = `This %s-related claim has mixed or insufficient evidence for a definitive assessment.

FACT CHECK RESULT: REQUIRES VERIFICATION

Some aspects may be accurate while others need additional verification. Consult multiple authoritative sources and expert opinions before drawing conclusions about this topic.`
