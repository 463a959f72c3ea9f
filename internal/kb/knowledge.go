package kb

// answerEntry is one canned answer with the question patterns that trigger
// it. Patterns are regular expressions matched case-insensitively; their
// source text doubles as the corpus for fuzzy matching.
type answerEntry struct {
	patterns []string
	answer   string
	source   string
	url      string
}

// builtinKnowledge holds the canned documentation answers per platform key.
var builtinKnowledge = map[string][]answerEntry{
	"segment": {
		{
			patterns: []string{
				`how.*set up.*source.*segment`,
				`create.*source.*segment`,
				`add.*source.*segment`,
				`configure.*source.*segment`,
				`set up.*source`,
				`create.*source`,
				`add.*source`,
				`new source`,
				`source.*setup`,
				`source.*configuration`,
				`start.*source`,
			},
			answer: `To set up a new source in Segment:

1. Log in to your Segment workspace
2. Click on 'Sources' in the navigation
3. Click 'Add Source'
4. Choose your source type (Website, Server, Mobile App, etc.)
5. Follow the setup instructions for your specific source type
6. Add the Segment snippet or SDK to your application
7. Configure any additional settings

For more details, visit: https://segment.com/docs/connections/sources/`,
			source: "Segment Documentation",
			url:    "https://segment.com/docs/connections/sources/",
		},
		{
			patterns: []string{
				`what.*segment`,
				`segment.*overview`,
				`segment.*introduction`,
				`explain.*segment`,
				`segment.*capabilities`,
			},
			answer: `Segment is a Customer Data Platform (CDP) that helps you:

1. Collect customer data from any source
2. Clean and transform your data
3. Send it to any destination
4. Create unified customer profiles
5. Implement tracking without complex coding

Key features:
- Multiple source types (web, mobile, server)
- 300+ integration destinations
- Real-time data synchronization
- Data governance and privacy tools

For more information, visit: https://segment.com/docs/`,
			source: "Segment Overview",
			url:    "https://segment.com/docs/",
		},
	},
	"mparticle": {
		{
			patterns: []string{
				`how.*set up.*mparticle`,
				`mparticle.*integration`,
				`mparticle.*setup`,
				`configure.*mparticle`,
				`start.*mparticle`,
				`implement.*mparticle`,
			},
			answer: `To get started with mParticle:

1. Create an mParticle account
2. Set up a new workspace
3. Create an input (source) for your data
4. Choose your platform (iOS, Android, Web)
5. Install the mParticle SDK
6. Configure your data collection
7. Set up outputs (destinations)

Key implementation steps:
- Add the SDK to your application
- Initialize the SDK with your API credentials
- Configure data collection points
- Set up user identification

For detailed instructions, visit: https://docs.mparticle.com/`,
			source: "mParticle Documentation",
			url:    "https://docs.mparticle.com/",
		},
	},
	"lytics": {
		{
			patterns: []string{
				`how.*use.*lytics`,
				`lytics.*setup`,
				`implement.*lytics`,
				`configure.*lytics`,
				`start.*lytics`,
			},
			answer: `To implement Lytics in your application:

1. Create a Lytics account
2. Set up your data collection
3. Install the Lytics JavaScript tag
4. Configure your data streams
5. Set up user identification
6. Create audience segments
7. Activate your data

Key features:
- Behavioral tracking
- Machine learning predictions
- Real-time personalization
- Cross-channel orchestration

For implementation details, visit: https://learn.lytics.com/`,
			source: "Lytics Documentation",
			url:    "https://learn.lytics.com/",
		},
	},
	"zeotap": {
		{
			patterns: []string{
				`how.*configure.*zeotap`,
				`zeotap.*setup`,
				`implement.*zeotap`,
				`start.*zeotap`,
				`use.*zeotap`,
			},
			answer: `To set up Zeotap:

1. Create your Zeotap account
2. Configure your data sources
3. Set up the Zeotap tag
4. Define your user identification strategy
5. Configure data collection
6. Set up audience segments
7. Activate your data destinations

Key capabilities:
- Customer data unification
- Identity resolution
- Audience segmentation
- Cross-channel activation

For detailed setup instructions, visit: https://docs.zeotap.com/`,
			source: "Zeotap Documentation",
			url:    "https://docs.zeotap.com/",
		},
	},
}
