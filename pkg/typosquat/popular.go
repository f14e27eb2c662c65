package typosquat

// PopularPackages is a baked-in list of widely-used npm packages used as
// the reference set for typosquat detection. Order is preserved in match
// output.
var PopularPackages = []string{
	"react", "react-dom", "vue", "angular", "lodash", "express", "axios",
	"moment", "chalk", "commander", "request", "debug", "async", "webpack",
	"babel-core", "typescript", "eslint", "jest", "mocha", "chai",
	"underscore", "jquery", "bluebird", "rxjs", "redux", "react-redux",
	"next", "nuxt", "gatsby", "vite", "rollup", "parcel", "gulp", "grunt",
	"yargs", "inquirer", "dotenv", "uuid", "classnames", "prop-types",
	"styled-components", "tailwindcss", "bootstrap", "socket.io", "ws",
	"cors", "body-parser", "cookie-parser", "passport", "jsonwebtoken",
	"bcrypt", "mongoose", "sequelize", "pg", "mysql", "mysql2", "redis",
	"ioredis", "graphql", "apollo-server", "prisma", "knex", "nodemon",
	"concurrently", "cross-env", "rimraf", "mkdirp", "glob", "minimist",
	"semver", "node-fetch", "form-data", "multer", "sharp", "puppeteer",
	"cheerio", "nodemailer", "winston", "pino", "joi", "zod", "ajv",
	"uglify-js", "terser", "postcss", "autoprefixer", "sass", "less",
	"immer", "reselect", "formik", "react-router", "react-router-dom",
	"date-fns", "dayjs", "uuid-parse", "qs", "ms", "chokidar", "fs-extra",
	"ora", "boxen", "figlet", "table", "cli-table3", "strip-ansi",
	"color", "ansi-colors", "kleur",
}
