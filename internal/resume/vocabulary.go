package resume

import "github.com/samber/lo"

var technologyVocabulary = lo.Uniq([]string{
	// languages
	"JavaScript", "TypeScript", "Python", "Java", "C++", "C#", "PHP", "Ruby", "Go", "Swift", "Kotlin", "Rust", "Scala",
	"Perl", "Haskell", "Clojure", "Erlang", "Dart", "Lua", "Assembly", "MATLAB", "R", "Julia",

	// web frameworks
	"React", "Angular", "Vue", "Vue.js", "Svelte", "Next.js", "Nuxt.js", "Gatsby", "SvelteKit",
	"Node.js", "Express", "Fastify", "Koa", "NestJS", "Django", "Flask", "FastAPI", "Spring", "Spring Boot",
	"Laravel", "Symfony", "CodeIgniter", "CakePHP", "Rails", "Sinatra", "ASP.NET", "ASP.NET Core",

	// frontend
	"HTML", "HTML5", "CSS", "CSS3", "SASS", "SCSS", "LESS", "Stylus", "PostCSS",
	"Bootstrap", "Tailwind CSS", "Material-UI", "Ant Design", "Chakra UI", "Bulma", "Foundation",
	"jQuery", "Lodash", "Underscore", "Moment.js", "Day.js", "Axios", "Fetch API",

	// databases
	"MySQL", "PostgreSQL", "MongoDB", "Redis", "SQLite", "Oracle", "SQL Server", "MariaDB",
	"Cassandra", "CouchDB", "Neo4j", "Elasticsearch", "DynamoDB", "Firebase", "Supabase",

	// cloud and devops
	"AWS", "Amazon Web Services", "Azure", "Google Cloud", "GCP", "DigitalOcean", "Heroku", "Vercel", "Netlify",
	"Docker", "Kubernetes", "Jenkins", "GitLab CI", "GitHub Actions", "CircleCI", "Travis CI",
	"Terraform", "Ansible", "Chef", "Puppet", "Vagrant", "VirtualBox", "VMware",

	// tools
	"Git", "GitHub", "GitLab", "Bitbucket", "SVN", "Mercurial",
	"Photoshop", "Illustrator", "Figma", "Sketch", "Adobe XD", "InVision", "Zeplin",
	"Excel", "PowerBI", "Tableau", "Looker", "Salesforce", "HubSpot", "Pipedrive",
	"Jira", "Confluence", "Slack", "Microsoft Teams", "Trello", "Asana", "Notion",

	// mobile
	"React Native", "Flutter", "Ionic", "Xamarin", "Cordova", "PhoneGap",
	"iOS", "Android", "Swift", "Kotlin", "Objective-C", "Java",

	// testing
	"Jest", "Mocha", "Chai", "Cypress", "Selenium", "Playwright", "Puppeteer",
	"JUnit", "TestNG", "RSpec", "Cucumber", "Jasmine", "Karma",

	// other
	"GraphQL", "REST API", "SOAP", "WebSocket", "gRPC", "Microservices",
	"Machine Learning", "AI", "TensorFlow", "PyTorch", "Scikit-learn", "Pandas", "NumPy",
	"Blockchain", "Ethereum", "Solidity", "Web3", "IPFS",
})

var summaryVocabulary = []string{
	"Leadership", "Management", "Communication", "Problem Solving", "Teamwork", "Collaboration",
	"Project Management", "Agile", "Scrum", "Kanban", "Waterfall", "DevOps",
	"Analytics", "Data Analysis", "Business Intelligence", "Data Science", "Statistics",
	"Marketing", "Digital Marketing", "SEO", "SEM", "Social Media", "Content Marketing",
	"Sales", "Customer Service", "Client Relations", "Account Management",
	"Finance", "Accounting", "Budgeting", "Financial Analysis", "Risk Management",
	"Operations", "Supply Chain", "Logistics", "Quality Assurance", "Process Improvement",
	"Research", "Strategy", "Planning", "Innovation", "Creative Thinking",
	"Presentation", "Public Speaking", "Training", "Mentoring", "Coaching",
	"Time Management", "Organization", "Attention to Detail", "Multitasking",
	"Adaptability", "Flexibility", "Critical Thinking", "Decision Making",
}

var educationVocabulary = []string{
	"Computer Science", "Software Engineering", "Information Technology", "Data Science",
	"Business Administration", "Marketing", "Finance", "Economics", "Accounting",
	"Engineering", "Mechanical Engineering", "Electrical Engineering", "Civil Engineering",
	"Design", "Graphic Design", "Web Design", "UI/UX Design", "Industrial Design",
	"Mathematics", "Statistics", "Physics", "Chemistry", "Biology",
	"Psychology", "Sociology", "Communication", "Journalism", "English",
	"MBA", "Master", "Bachelor", "PhD", "Doctorate", "Certificate", "Diploma",
}

// technicalMarkers earn the skills bonus when any listed skill contains one of them.
var technicalMarkers = []string{"programming", "software", "language", "framework", "tool"}

// actionKeywords earn 2 points each when they appear anywhere in the vendor payload.
var actionKeywords = []string{
	"achievement", "accomplished", "improved", "increased", "reduced",
	"managed", "led", "developed", "implemented", "optimized",
}
