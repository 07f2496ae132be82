package ai

// extractionPrompt is the fixed single-turn instruction sent with every
// document image. The closed enumerations here must stay in sync with
// model.DocumentTypes and model.EntityTypes.
const extractionPrompt = `you are a document scanner.
given the following file input, your output will be a JSON object with the following structure, return only the JSON object:
{
  "title": string, // A descriptive title for the document
  "content": string, // content summary
  "document_type": "letter"|"report"|"photo"|"newspaper"|"list"|"diary_entry"|"book"|"map"|"biography",
  "entities": [{
    "name": string,
    "type": "person"|"location"|"organization"|"event"|"date"|"unit"
  }]
}

Please analyze the document and provide a detailed response following this structure.`
